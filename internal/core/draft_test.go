package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDraftSetAttribute(t *testing.T) {
	var d Draft
	d.SetAttribute("from", "noreply@example.com")
	d.SetAttribute("fromName", "Shop")
	d.SetAttribute("replyTo", "support@example.com")
	d.SetAttribute("subject", "Your Receipt")
	d.SetAttribute("body", "plain")
	d.SetAttribute("bodyHTML", "<p>html</p>")
	d.SetAttribute("header:X-Campaign", "summer")
	d.SetAttribute("header:X-Campaign", "winter")

	assert.Equal(t, "noreply@example.com", d.From)
	assert.Equal(t, "Shop", d.FromName)
	assert.Equal(t, "support@example.com", d.ReplyTo)
	assert.Equal(t, "Your Receipt", d.Subject)
	assert.Equal(t, "plain", d.Text)
	assert.Equal(t, "<p>html</p>", d.HTML)
	assert.Equal(t, []Header{
		{Name: "X-Campaign", Value: "summer"},
		{Name: "X-Campaign", Value: "winter"},
	}, d.Headers)
}

func TestDraftIgnoresUnknownAttributes(t *testing.T) {
	var d Draft
	d.SetAttribute("priority", "high")
	d.SetAttribute("header:", "empty name")

	assert.Equal(t, Draft{}, d)
}

func TestDraftRecipientAndSender(t *testing.T) {
	var d Draft
	d.SetAttribute("from", "noreply@example.com")
	d.SetAttribute("fromName", "Shop")
	d.SetRecipient("alice@example.com", "Alice")

	assert.Equal(t, Address{Name: "Shop", Email: "noreply@example.com"}, d.Sender())
	assert.Equal(t, Address{Name: "Alice", Email: "alice@example.com"}, d.Recipient())
}

func TestDraftCollectsAttachmentsAndParams(t *testing.T) {
	var d Draft
	d.Attach("/tmp/invoice.pdf", "invoice.pdf")
	d.AddParameter("tag:billing")

	assert.Equal(t, []Attachment{{Filename: "invoice.pdf", Ref: "/tmp/invoice.pdf"}}, d.Attachments)
	assert.Equal(t, []string{"tag:billing"}, d.Params)
}
