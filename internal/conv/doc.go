// Package conv provides bounds-checked integer conversions for sizes and
// indices that end up in fixed-width fields (block headers, bitmap members).
package conv
