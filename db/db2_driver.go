//go:build db2

package db

// The IBM CLI driver needs cgo and the clidriver libraries, so it is linked
// only into binaries built with -tags db2.
import _ "github.com/ibmdb/go_ibm_db"
