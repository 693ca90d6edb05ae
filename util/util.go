// Package util holds small helpers shared by the commands.
package util

import (
	"crypto/md5"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"sort"
)

// MD5File is the hex checksum of a file, logged to tell model files apart
func MD5File(fileName string) (string, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return "", err
	}
	defer file.Close()

	md5 := md5.New()
	if _, err := io.Copy(md5, file); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", md5.Sum(nil)), nil
}

func LogMemory() {
	s := &runtime.MemStats{}
	runtime.ReadMemStats(s)
	log.Println("*** Memory Info ***")
	log.Println("Bytes Allocated InUse:\t", s.Alloc)
	log.Println("Heap Allocated InUse:\t", s.HeapAlloc)
	log.Println("Heap Objects:\t\t", s.HeapObjects)
	log.Println("GC Cycles:\t\t", s.NumGC)
	log.Println("*** ***")
}

type Count struct {
	S string
	N int
}

// TopN returns the n largest counts of m, ties ordered by key
func TopN(m map[string]int, n int) []Count {
	data := make([]Count, 0, len(m))
	for k, v := range m {
		data = append(data, Count{k, v})
	}
	sort.Slice(data, func(a, b int) bool {
		if data[a].N != data[b].N {
			return data[a].N > data[b].N
		}
		return data[a].S < data[b].S
	})
	return data[:min(len(data), n)]
}
