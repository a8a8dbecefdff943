// Package shapefile compiles YAML shape definitions into modelbind shapes,
// so forms can be bound without a Go type for them. Bound records are
// map[string]any values holding the submitted fields.
//
//	name: Order
//	fields:
//	  - name: Title
//	    type: string
//	  - name: Lines
//	    type:
//	      kind: array
//	      elem:
//	        kind: record
//	        fields: [{name: SKU, type: string}, {name: Qty, type: int}]
//	  - name: Status
//	    type: {kind: enum, members: [Pending, Paid]}
//
// Scalar kinds are string, bool, int, int8 to int64, uint, uint8 to uint64,
// float32 and float64. Composite kinds are record, array, map and enum.
package shapefile
