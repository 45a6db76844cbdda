package report

type CreateReportRequest struct {
	Type     string `json:"type" binding:"required,oneof=user product"`
	TargetID int64  `json:"target_id" binding:"required,gt=0"`
	Reason   string `json:"reason" binding:"required"`
}

type ReviewRequest struct {
	Notes string `json:"notes"`
}

type BanRequest struct {
	Notes     string `json:"notes"`
	BanReason string `json:"ban_reason" binding:"required"`
}

type ListQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=pending reviewed resolved rejected"`
	Type   string `form:"type" binding:"omitempty,oneof=user product"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}
