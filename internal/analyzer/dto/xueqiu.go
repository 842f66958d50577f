package dto

// XueqiuHotListResponse is the envelope of the xueqiu hot statuses API.
type XueqiuHotListResponse struct {
	List []XueqiuStatus `json:"list"`
}

// XueqiuStatus is one hot discussion entry.
type XueqiuStatus struct {
	Title      string     `json:"title"`
	Text       string     `json:"text"`
	ReplyCount int        `json:"reply_count"`
	User       XueqiuUser `json:"user"`
}

// XueqiuUser identifies the author of a status.
type XueqiuUser struct {
	ScreenName string `json:"screen_name"`
}
