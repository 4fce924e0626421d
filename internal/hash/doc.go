// Package hash checksums stored artifacts with CRC32-Castagnoli.
//
// The pipeline records CRC32C(labels.bin) in each run manifest and Load
// checks it with Verify; the S3 store sends the same checksum with every
// upload so the service rejects corrupted bodies.
package hash
