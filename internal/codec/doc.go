// Package codec decodes and encodes the fixed-width trading records of QMT
// DAT files.
//
// Every record occupies RecordSize bytes: a price half holding the Unix
// timestamp and the OHLC prices (x1000), followed by a volume half holding
// volume and traded amount. All words are little-endian uint32.
//
//	dec := codec.NewDecoder("000001", domain.BarLayoutDaily)
//	bar, err := dec.Decode(block, prevClose)
//
// Decoding is a pure function of the block and the previous close, so files
// can be decoded independently of each other.
package codec
