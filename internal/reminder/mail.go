package reminder

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"github.com/emersion/go-message/mail"
)

// Appender stores a raw message in a mailbox.
type Appender interface {
	Append(ctx context.Context, mailbox string, msg []byte, received time.Time) error
}

// IMAPAppender appends messages to a mailbox on an IMAP server.
type IMAPAppender struct {
	host     string
	port     string
	username string
	password string
	tls      bool
}

// NewIMAPAppender creates an appender for one IMAP account.
func NewIMAPAppender(host, port, username, password string, tls bool) *IMAPAppender {
	return &IMAPAppender{
		host:     host,
		port:     port,
		username: username,
		password: password,
		tls:      tls,
	}
}

func (a *IMAPAppender) connect() (*imapclient.Client, error) {
	addr := a.host + ":" + a.port

	var client *imapclient.Client
	var err error

	if a.tls {
		client, err = imapclient.DialTLS(addr, nil)
	} else {
		client, err = imapclient.DialStartTLS(addr, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("connecting to IMAP %s: %w", addr, err)
	}

	if err := client.Login(a.username, a.password).Wait(); err != nil {
		_ = client.Logout().Wait()
		return nil, fmt.Errorf("authentication failed for %s: %w", a.username, err)
	}

	return client, nil
}

// Append uploads msg flagged, creating the mailbox on first use.
func (a *IMAPAppender) Append(_ context.Context, mailbox string, msg []byte, received time.Time) error {
	client, err := a.connect()
	if err != nil {
		return err
	}
	defer func() { _ = client.Logout().Wait() }()

	// Fails with ALREADYEXISTS on every call after the first.
	_ = client.Create(mailbox, nil).Wait()

	cmd := client.Append(mailbox, int64(len(msg)), &imap.AppendOptions{
		Flags: []imap.Flag{imap.FlagFlagged},
		Time:  received,
	})
	if _, err := cmd.Write(msg); err != nil {
		_ = cmd.Close()
		return fmt.Errorf("writing reminder message: %w", err)
	}
	if err := cmd.Close(); err != nil {
		return fmt.Errorf("closing append to %s: %w", mailbox, err)
	}
	if _, err := cmd.Wait(); err != nil {
		return fmt.Errorf("appending to %s: %w", mailbox, err)
	}
	return nil
}

// MailNotifier delivers reminders as flagged messages dated at the fire
// time, so mail clients sort and surface them on schedule.
type MailNotifier struct {
	appender Appender
	mailbox  string
	from     string
	logger   *log.Logger
}

// NewMailNotifier returns a notifier appending to mailbox as from.
func NewMailNotifier(a Appender, mailbox, from string, logger *log.Logger) *MailNotifier {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &MailNotifier{appender: a, mailbox: mailbox, from: from, logger: logger}
}

// Schedule appends a flagged reminder message to the mailbox. A request
// without a date is passed to Cancel.
func (n *MailNotifier) Schedule(ctx context.Context, req Request) error {
	at, ok := req.FireAt()
	if !ok {
		return n.Cancel(ctx, req.ID)
	}

	msg, err := composeMessage(req, at, n.from)
	if err != nil {
		return err
	}
	if err := n.appender.Append(ctx, n.mailbox, msg, at); err != nil {
		return fmt.Errorf("delivering reminder for task %s: %w", req.ID, err)
	}
	return nil
}

// Cancel cannot recall a delivered message.
func (n *MailNotifier) Cancel(_ context.Context, id string) error {
	n.logger.Printf("reminder: mail reminder for task %s left in %s", id, n.mailbox)
	return nil
}

// TaskIDHeader carries the task identifier inside reminder messages.
const TaskIDHeader = "X-Taskmate-Task-Id"

func composeMessage(req Request, at time.Time, from string) ([]byte, error) {
	var h mail.Header
	h.SetDate(at)
	addr := []*mail.Address{{Name: "taskmate", Address: from}}
	h.SetAddressList("From", addr)
	h.SetAddressList("To", addr)
	h.SetSubject("Reminder: " + req.Title)
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
	h.Set(TaskIDHeader, req.ID)
	if err := h.GenerateMessageID(); err != nil {
		return nil, fmt.Errorf("generating message id: %w", err)
	}

	var body strings.Builder
	body.WriteString(req.Title)
	body.WriteString("\n\nDue ")
	body.WriteString(at.Format("Mon 2 January 2006 15:04"))
	body.WriteString("\n")
	if notes := strings.TrimSpace(req.Notes); notes != "" {
		body.WriteString("\n")
		body.WriteString(notes)
		body.WriteString("\n")
	}

	var buf bytes.Buffer
	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("creating reminder message: %w", err)
	}
	if _, err := io.WriteString(w, body.String()); err != nil {
		return nil, fmt.Errorf("writing reminder body: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("closing reminder message: %w", err)
	}
	return buf.Bytes(), nil
}
