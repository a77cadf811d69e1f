package chat

// Turn is a prior exchange supplied by the client as context.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is one in-flight chat exchange. It lives for a single call.
type Request struct {
	Message string `json:"message"`
	UserID  string `json:"-"`
	Context []Turn `json:"context,omitempty"`
}

// Response is the outcome of one exchange: either Text (with an optional
// AudioURL) or Err is set, never both.
type Response struct {
	Text     string `json:"text"`
	AudioURL string `json:"audio_url,omitempty"`
	Err      string `json:"error,omitempty"`
}
