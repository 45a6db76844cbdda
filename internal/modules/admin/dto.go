package admin

type ListUsersQuery struct {
	Role   string `form:"role" binding:"omitempty,oneof=user admin"`
	Banned *bool  `form:"banned"`
	Query  string `form:"q"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}

type BanUserRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type Statistics struct {
	Users          int64 `json:"users"`
	Products       int64 `json:"products"`
	Bookings       int64 `json:"bookings"`
	PendingReports int64 `json:"pending_reports"`
}
