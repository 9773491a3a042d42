package utils

import (
	"github.com/twmb/murmur3"
)

func HashBytes(bytes ...[]byte) uint64 {
	hash := murmur3.New64()
	for _, b := range bytes {
		_, err := hash.Write(b)
		if err != nil {
			panic(err)
		}
	}
	return hash.Sum64()
}
