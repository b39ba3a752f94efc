package api

import "context"

// ChatService talks to the virtual coach.
type ChatService struct {
	client *Client
}

type chatRequest struct {
	Messages []Message `json:"messages"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// Send posts the transcript so far and returns the coach's reply.
func (s *ChatService) Send(ctx context.Context, messages []Message) (string, error) {
	if messages == nil {
		messages = []Message{}
	}
	var resp chatResponse
	if err := s.client.post(ctx, "/api/chat", chatRequest{Messages: messages}, &resp); err != nil {
		return "", err
	}
	return resp.Reply, nil
}
