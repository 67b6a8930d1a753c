package domain

// InsertBatch is one rendered multi-row INSERT with its positional arguments.
type InsertBatch struct {
	// Seq is the position of the chunk the batch was rendered from.
	Seq       int
	Statement string
	Args      []interface{}
	Rows      int
}
