package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash returns the hex SHA-256 digest of data. Table content hashes and key
// digests share it.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// keyOf builds "<kind>:<digest>" from a table content hash and the JSON form
// of the key options. Both option structs hold only strings, bools and
// string collections, so encoding cannot fail.
func keyOf(kind, tableHash string, opts any) string {
	data, _ := json.Marshal(opts)
	return kind + ":" + Hash(append([]byte(tableHash+"\n"), data...))
}
