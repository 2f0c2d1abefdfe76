package ycsb

// BuildPath maps a table and key onto the tree path of the file holding the row.
// Table and key are not validated, the tree rejects invalid paths itself.
// An empty table addresses the root directory, BuildPath("", "k") is "/k".
func BuildPath(table, key string) string {
	return table + "/" + key
}
