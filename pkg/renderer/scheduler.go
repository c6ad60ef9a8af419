package renderer

// RowBlock is a contiguous range of image rows [Start, End) owned by one worker
type RowBlock struct {
	Worker int
	Start  int
	End    int
}

// Rows returns the number of rows in the block
func (b RowBlock) Rows() int {
	return b.End - b.Start
}

// PartitionRows splits [0, height) into one contiguous block per worker.
// The worker count is clamped to [1, height]; the first height%workers
// blocks get one extra row.
func PartitionRows(height, workers int) []RowBlock {
	if height < 1 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}
	if workers > height {
		workers = height
	}

	base := height / workers
	remainder := height % workers

	blocks := make([]RowBlock, workers)
	start := 0
	for w := 0; w < workers; w++ {
		rows := base
		if w < remainder {
			rows++
		}
		blocks[w] = RowBlock{Worker: w, Start: start, End: start + rows}
		start += rows
	}
	return blocks
}
