package sqlite

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
)

// Fingerprint derives the stable identifier of an index artifact from the
// embedding model and the dataset identity. The same pair always maps to
// the same artifact; changing either yields a different one.
func Fingerprint(embeddingModel, datasetIdentity string) string {
	sum := md5.Sum([]byte(datasetIdentity + "_" + embeddingModel))
	return hex.EncodeToString(sum[:])
}

// indexFileName returns the artifact file name for a fingerprint.
func indexFileName(fingerprint string) string {
	return fmt.Sprintf("index_%s.db", fingerprint)
}
