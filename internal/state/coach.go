package state

import (
	"context"
	"fmt"
	"slices"

	"github.com/nutrigen/nutri/internal/api"
)

// TypeSendMessage is the coach operation type.
const TypeSendMessage = "coach/sendMessage"

// coachKey is shared by the coach operations and invalidated by ResetChat.
const coachKey = "coach"

func selectCoach(s *State) *CoachState { return &s.Coach }

func appendAssistant(s *CoachState, content string) {
	s.History = append(slices.Clip(s.History), api.Message{Role: api.RoleAssistant, Content: content})
}

// SendMessageOp sends the transcript and appends the reply. A failure is
// shown in the transcript as an assistant message carrying the error text.
func SendMessageOp(svc ChatService) AsyncOp[*CoachState, []api.Message, string] {
	return AsyncOp[*CoachState, []api.Message, string]{
		Type:      TypeSendMessage,
		Key:       coachKey,
		Select:    selectCoach,
		Call:      svc.Send,
		Fallback:  "Failed to send message",
		Fulfilled: appendAssistant,
		Rejected:  apologize,
	}
}

// AskOp appends its input to the transcript and sends the result. The
// append and the transcript copy happen in the same transition, so
// concurrent asks never send each other's messages.
func AskOp(svc ChatService) AsyncOp[*CoachState, []api.Message, string] {
	op := SendMessageOp(svc)
	op.Prepare = func(st *State, in []api.Message) []api.Message {
		for _, m := range in {
			st.Coach.History = append(slices.Clip(st.Coach.History), m)
		}
		return slices.Clone(st.Coach.History)
	}
	return op
}

func apologize(s *CoachState, msg string) {
	appendAssistant(s, fmt.Sprintf("Sorry, something went wrong. Please try again. (%s)", msg))
}

// SendMessage dispatches SendMessageOp with messages as the transcript.
func (o *Ops) SendMessage(ctx context.Context, messages []api.Message) *Request[string] {
	return Run(ctx, o.store, SendMessageOp(o.svc.Chat), messages)
}

// Ask appends content as a user message and sends the resulting transcript.
func (o *Ops) Ask(ctx context.Context, content string) *Request[string] {
	return Run(ctx, o.store, AskOp(o.svc.Chat), []api.Message{{Role: api.RoleUser, Content: content}})
}
