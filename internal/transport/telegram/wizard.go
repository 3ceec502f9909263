package telegram

import (
	"fmt"
	"strconv"
	"strings"

	ruleDomain "github.com/okhotnikdev/mediagate/internal/modules/rule/domain"
)

// advanceWizard consumes one owner message and moves the session to its
// next step. It returns the reply to send and, once the draft is
// confirmed, the completed rule.
func advanceWizard(session *wizardSession, input string) (string, *ruleDomain.Rule) {
	input = strings.TrimSpace(input)

	switch session.step {
	case stepSource:
		if input == "" {
			return "Please send a source name, like earthporn or r/earthporn.", nil
		}
		session.draft.Source = input
		session.step = stepSort
		return "How should I sort it? Send one of: hot, new, top, rising.", nil

	case stepSort:
		mode, err := ruleDomain.ParseSortMode(strings.ToLower(input))
		if err != nil {
			return "❌ Unknown sort mode. Send one of: hot, new, top, rising.", nil
		}
		session.draft.SortMode = mode
		if mode == ruleDomain.SortModeTop {
			session.step = stepWindow
			return "Which time window for top? Send one of: hour, day, week, month, year, all.", nil
		}
		session.step = stepFrequency
		return frequencyPrompt(), nil

	case stepWindow:
		window, err := ruleDomain.ParseTimeWindow(strings.ToLower(input))
		if err != nil {
			return "❌ Unknown time window. Send one of: hour, day, week, month, year, all.", nil
		}
		session.draft.TimeWindow = window
		session.step = stepFrequency
		return frequencyPrompt(), nil

	case stepFrequency:
		hours, err := strconv.Atoi(input)
		if err != nil || !ruleDomain.ValidFrequency(hours) {
			return fmt.Sprintf("❌ Send a whole number of hours between %d and %d.",
				ruleDomain.MinFrequencyHours, ruleDomain.MaxFrequencyHours), nil
		}
		session.draft.FrequencyHours = hours
		session.step = stepTarget
		return "Where should approved items go? Send the target channel, like @mychannel. The bot must be an admin there.", nil

	case stepTarget:
		if !validTarget(input) {
			return "❌ Send the target channel as @name or a -100… chat ID.", nil
		}
		session.draft.TargetChannel = input
		session.step = stepConfirm
		return confirmText(session.draft), nil

	case stepConfirm:
		if !strings.EqualFold(input, "yes") {
			return "Send yes to save the rule, or /cancel to abandon it.", nil
		}
		rule := session.draft
		return "", &rule
	}

	return "", nil
}

func frequencyPrompt() string {
	return fmt.Sprintf("How often should I check, in hours? Send a number between %d and %d.",
		ruleDomain.MinFrequencyHours, ruleDomain.MaxFrequencyHours)
}

func validTarget(target string) bool {
	if strings.HasPrefix(target, "@") && len(target) > 1 {
		return true
	}
	if strings.HasPrefix(target, "-100") {
		_, err := strconv.ParseInt(target, 10, 64)
		return err == nil
	}
	return false
}

func confirmText(draft ruleDomain.Rule) string {
	var text strings.Builder
	text.WriteString("About to save this rule:\n\n")
	text.WriteString(fmt.Sprintf("Source: r/%s\n", strings.TrimPrefix(strings.ToLower(draft.Source), "r/")))
	text.WriteString(fmt.Sprintf("Sort: %s", draft.SortMode))
	if draft.TimeWindow != "" {
		text.WriteString(fmt.Sprintf(" (%s)", draft.TimeWindow))
	}
	text.WriteString(fmt.Sprintf("\nEvery: %dh\n", draft.FrequencyHours))
	text.WriteString(fmt.Sprintf("Target: %s\n", draft.TargetChannel))
	text.WriteString("\nSend yes to save, or /cancel.")
	return text.String()
}
