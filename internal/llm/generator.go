package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/resolvepay/resolvepay-platform/internal/customer"
	"github.com/resolvepay/resolvepay-platform/internal/session"
)

const openerSystemPrompt = `You are a friendly payment-recovery assistant contacting a subscriber on behalf of their service provider. Write the first message of the conversation. Be brief, warm and concrete: greet the customer by name, say which provider you represent, name the payment problem, and invite them to fix it in this chat. One short paragraph, no markdown, no placeholder text.`

// Generator produces opening messages for new outreach sessions.
type Generator struct {
	client    Client
	model     string
	maxTokens int32
}

// NewGenerator creates an opening-message generator bound to a model.
func NewGenerator(client Client, model string, maxTokens int32) *Generator {
	if maxTokens <= 0 {
		maxTokens = 300
	}
	return &Generator{client: client, model: model, maxTokens: maxTokens}
}

// OpeningMessage asks the model for the first message of a recovery
// conversation. The caller is expected to degrade to a template greeting when
// this fails.
func (g *Generator) OpeningMessage(ctx context.Context, sess session.Session, snap customer.RiskSnapshot) (string, error) {
	resp, err := g.client.Complete(ctx, Request{
		Model:       g.model,
		System:      []string{openerSystemPrompt},
		Messages:    []ChatMessage{{Role: ChatRoleUser, Content: openerContext(sess, snap)}},
		MaxTokens:   g.maxTokens,
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("llm: generate opening message: %w", err)
	}
	return resp.Text, nil
}

func openerContext(sess session.Session, snap customer.RiskSnapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Customer name: %s\n", snap.Name)
	fmt.Fprintf(&b, "Provider: %s\n", snap.Provider)
	fmt.Fprintf(&b, "Service category: %s\n", snap.ServiceCategory)
	fmt.Fprintf(&b, "Payment issue: %s\n", sess.PaymentIssue)
	if snap.FailureCount > 0 {
		fmt.Fprintf(&b, "Failed payment attempts: %d\n", snap.FailureCount)
	}
	if snap.RiskCategory == customer.RiskExpiringCard && snap.CardExpiryYear != 0 {
		fmt.Fprintf(&b, "Card on file expires: %s %d\n", snap.CardExpiryMonth, snap.CardExpiryYear)
	}
	if snap.NextBillingAt != nil {
		fmt.Fprintf(&b, "Next billing date: %s\n", snap.NextBillingAt.Format("2006-01-02"))
	}
	return b.String()
}
