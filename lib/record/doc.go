// Package record holds the row type written by the YCSB harness and its text encoding.
//
// A Record is stored in a single tree file as
//
//	{'field0': 'value0', 'field1': 'value1'}
//
// Names and values are written verbatim. Strings containing a single quote or a brace
// do not survive a round trip, which is fine for the printable payloads YCSB generates.
package record
