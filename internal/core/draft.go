package core

import "strings"

// headerPrefix is the SetAttribute name prefix for header entries.
const headerPrefix = "header:"

// Header is one flattened header entry on a draft. A slice preserves
// multiplicity and insertion order, which a map would not.
type Header struct {
	Name  string
	Value string
}

// Draft accumulates the per-recipient message state a backend receives via
// the Backend setters. Concrete backends embed it and read the collected
// fields when Deliver is called.
type Draft struct {
	From        string
	FromName    string
	ReplyTo     string
	Subject     string
	Text        string
	HTML        string
	Headers     []Header
	Attachments []Attachment
	Params      []string
	To          string
	ToName      string
}

// SetAttribute stores a recognized envelope attribute. Unknown names are
// ignored so that future attributes do not break older backends.
func (d *Draft) SetAttribute(name, value string) {
	switch name {
	case "from":
		d.From = value
	case "fromName":
		d.FromName = value
	case "replyTo":
		d.ReplyTo = value
	case "subject":
		d.Subject = value
	case "body":
		d.Text = value
	case "bodyHTML":
		d.HTML = value
	default:
		if h, ok := strings.CutPrefix(name, headerPrefix); ok && h != "" {
			d.Headers = append(d.Headers, Header{Name: h, Value: value})
		}
	}
}

// Attach records a file attachment.
func (d *Draft) Attach(ref, filename string) {
	d.Attachments = append(d.Attachments, Attachment{Filename: filename, Ref: ref})
}

// AddParameter records a backend-specific parameter.
func (d *Draft) AddParameter(param string) {
	d.Params = append(d.Params, param)
}

// SetRecipient sets the single recipient for this delivery attempt.
func (d *Draft) SetRecipient(address, name string) {
	d.To = address
	d.ToName = name
}

// Sender returns the sender as an Address.
func (d *Draft) Sender() Address {
	return Address{Name: d.FromName, Email: d.From}
}

// Recipient returns the recipient as an Address.
func (d *Draft) Recipient() Address {
	return Address{Name: d.ToName, Email: d.To}
}
