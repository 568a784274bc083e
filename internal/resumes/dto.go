package resumes

// ResumeResponse is the outward-facing representation of a resume.
type ResumeResponse struct {
	ID      int64  `json:"id"`
	UserID  int64  `json:"user_id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type createRequest struct {
	Title   *string `json:"title" binding:"required"`
	Content *string `json:"content" binding:"required"`
}

type updateRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

func toResponse(r Resume) ResumeResponse {
	return ResumeResponse{
		ID:      r.ID,
		UserID:  r.UserID,
		Title:   r.Title,
		Content: r.Content,
	}
}

func toResponses(list []Resume) []ResumeResponse {
	out := make([]ResumeResponse, 0, len(list))
	for _, r := range list {
		out = append(out, toResponse(r))
	}
	return out
}
