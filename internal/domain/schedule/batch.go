package schedule

// BatchResult reports a batch status application. Updates are applied
// per id without cross-record rollback: ids in FailedIDs did not
// change, everything counted in UpdatedCount stays committed.
type BatchResult struct {
	UpdatedCount int    `json:"updated_count"`
	FailedIDs    []uint `json:"failed_ids"`
}

func (r *BatchResult) Applied() {
	r.UpdatedCount++
}

func (r *BatchResult) Fail(id uint) {
	r.FailedIDs = append(r.FailedIDs, id)
}
