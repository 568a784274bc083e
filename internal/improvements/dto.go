package improvements

import "time"

// RecordResponse is the outward-facing history record.
type RecordResponse struct {
	ID              int64     `json:"id"`
	ResumeID        int64     `json:"resume_id"`
	ImprovedContent string    `json:"improved_content"`
	CreatedAt       time.Time `json:"created_at"`
}

type improveRequest struct {
	TimeZone string `json:"time_zone"`
}

func toResponse(r Record) RecordResponse {
	return RecordResponse{
		ID:              r.ID,
		ResumeID:        r.ResumeID,
		ImprovedContent: r.ImprovedContent,
		CreatedAt:       r.CreatedAt,
	}
}

func toResponses(list []Record) []RecordResponse {
	out := make([]RecordResponse, 0, len(list))
	for _, r := range list {
		out = append(out, toResponse(r))
	}
	return out
}
