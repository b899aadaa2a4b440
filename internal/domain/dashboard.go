package domain

// DashboardStats holds the workspace counters shown on the staff dashboard
type DashboardStats struct {
	BookingsToday       int `json:"bookings_today"`
	TotalBookings       int `json:"total_bookings"`
	PendingBookings     int `json:"pending_bookings"`
	NewLeadsThisWeek    int `json:"new_leads_this_week"`
	UnreadConversations int `json:"unread_conversations"`
}

// DashboardSummary combines counters with recent activity
type DashboardSummary struct {
	Stats               DashboardStats `json:"stats"`
	RecentBookings      []Booking      `json:"recent_bookings"`
	RecentConversations []Conversation `json:"recent_conversations"`
}
