package api

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOutcomeDispatch(t *testing.T) {
	cases := []struct {
		name string
		resp InteractResponse
		want Outcome
	}{
		{"repeat", InteractResponse{Intent: IntentRepeatQuestion}, OutcomeRepeat},
		{"hint", InteractResponse{Intent: IntentHintRequest}, OutcomeHint},
		{"need time", InteractResponse{Intent: IntentNeedTime}, OutcomeWait},
		{"normal answer", InteractResponse{Intent: IntentNormalAnswer}, OutcomeAnswer},
		{"unknown intent", InteractResponse{Intent: "small_talk"}, OutcomeUnknown},
		{"empty intent", InteractResponse{}, OutcomeUnknown},
		{"completed wins over unknown", InteractResponse{Intent: "small_talk", Completed: true}, OutcomeAnswer},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.resp.Outcome())
		})
	}
}

func TestNextQuestionTextPreference(t *testing.T) {
	require.Equal(t, "main", InteractResponse{NextQuestion: "main", FollowUpQuestion: "follow"}.NextQuestionText())
	require.Equal(t, "follow", InteractResponse{FollowUpQuestion: "follow"}.NextQuestionText())
	require.Equal(t, "repeat", InteractResponse{Question: "repeat"}.NextQuestionText())
	require.Equal(t, "", InteractResponse{}.NextQuestionText())
}

func TestFeedbackTextFallbacks(t *testing.T) {
	require.Equal(t, "fb", InteractResponse{Feedback: "fb", Message: "msg"}.FeedbackText())
	require.Equal(t, "msg", InteractResponse{Message: "msg"}.FeedbackText())
	require.Equal(t, "Thank you for your answer.", InteractResponse{}.FeedbackText())
}
