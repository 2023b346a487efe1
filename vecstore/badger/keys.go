package badger

import "fmt"

// Key prefixes for different data types
const (
	indexSpecPrefix = "idxspec"
	recordPrefix    = "idxrec"
)

// makeIndexSpecKey generates a key for an index definition by name.
func makeIndexSpecKey(name string) []byte {
	return []byte(fmt.Sprintf("%s:%s", indexSpecPrefix, name))
}

// makeIndexSpecScanPrefix returns the prefix covering all index definitions.
func makeIndexSpecScanPrefix() []byte {
	return []byte(indexSpecPrefix + ":")
}

// makeRecordKey generates a key for an embedding record within an index.
func makeRecordKey(index, id string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", recordPrefix, index, id))
}

// makeRecordScanPrefix returns the prefix covering all records of an index.
func makeRecordScanPrefix(index string) []byte {
	return []byte(fmt.Sprintf("%s:%s:", recordPrefix, index))
}
