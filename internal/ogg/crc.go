package ogg

// The Ogg page checksum is a CRC-32 with polynomial 0x04c11db7, no bit
// reflection, zero initial value and no final xor. hash/crc32 only
// implements the reflected variants.

const crcPoly = 0x04c11db7

var crcTable = makeCRCTable()

func makeCRCTable() [256]uint32 {
	var t [256]uint32
	for i := range t {
		r := uint32(i) << 24
		for j := 0; j < 8; j++ {
			if r&0x80000000 != 0 {
				r = (r << 1) ^ crcPoly
			} else {
				r <<= 1
			}
		}
		t[i] = r
	}
	return t
}

func crcUpdate(crc uint32, p []byte) uint32 {
	for _, b := range p {
		crc = (crc << 8) ^ crcTable[byte(crc>>24)^b]
	}
	return crc
}
