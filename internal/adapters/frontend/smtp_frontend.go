package frontend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/mail"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/emersion/go-smtp"
	"github.com/mikey/llm-mood-engine/internal/config"
	"github.com/mikey/llm-mood-engine/internal/core"
	"github.com/mikey/llm-mood-engine/internal/utils"
	"go.uber.org/zap"
)

// SMTPFrontend is a content filter that tags relayed mail with the mood of
// its text. Mail from the same envelope sender is tracked as one session,
// and every session is ended when the frontend stops.
type SMTPFrontend struct {
	service       *core.MoodService
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
	listenAddr    string
	server        *smtp.Server
	headers       config.HeaderConfig
	relay         config.RelayConfig
	maxTextLength int

	mu       sync.Mutex
	sessions map[string]string
}

// NewSMTPFrontend creates a new SMTP frontend
func NewSMTPFrontend(
	service *core.MoodService,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
	listenAddr string,
	headers config.HeaderConfig,
	relay config.RelayConfig,
	maxTextLength int,
) *SMTPFrontend {
	return &SMTPFrontend{
		service:       service,
		logger:        logger,
		textProcessor: textProcessor,
		listenAddr:    listenAddr,
		headers:       headers,
		relay:         relay,
		maxTextLength: maxTextLength,
		sessions:      make(map[string]string),
	}
}

// Start starts the SMTP server
func (f *SMTPFrontend) Start() error {
	f.server = smtp.NewServer(&smtpBackend{frontend: f})

	f.server.Addr = f.listenAddr
	f.server.Domain = "localhost"
	f.server.ReadTimeout = 30 * time.Second
	f.server.WriteTimeout = 30 * time.Second
	f.server.MaxMessageBytes = 30 * 1024 * 1024
	f.server.MaxRecipients = 50
	f.server.AllowInsecureAuth = true

	f.logger.Info("SMTP frontend starting", zap.String("address", f.listenAddr))

	go func() {
		if err := f.server.ListenAndServe(); err != nil && !errors.Is(err, smtp.ErrServerClosed) {
			f.logger.Error("SMTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop closes the server and ends every open session
func (f *SMTPFrontend) Stop() error {
	var err error
	if f.server != nil {
		err = f.server.Close()
	}

	f.mu.Lock()
	sessions := f.sessions
	f.sessions = make(map[string]string)
	f.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for sender, id := range sessions {
		summary, endErr := f.service.EndSession(ctx, id)
		if endErr != nil {
			f.logger.Warn("Failed to end session",
				zap.String("sender", sender),
				zap.String("session_id", id),
				zap.Error(endErr))
			continue
		}
		f.logger.Info("Sender session summary",
			zap.String("sender", sender),
			zap.String("session_id", id),
			zap.Int("messages", summary.MessageCount),
			zap.String("mood", summary.OverallMood.String()),
			zap.String("trend", string(summary.Trend)))
	}

	return err
}

// ProcessText analyzes a text, as part of a session when sessionID is set
func (f *SMTPFrontend) ProcessText(ctx context.Context, sessionID string, text string) (*core.TextResult, error) {
	text = f.textProcessor.ProcessText(text, f.maxTextLength)
	if sessionID == "" {
		return f.service.AnalyzeText(ctx, text)
	}
	return f.service.AddMessage(ctx, sessionID, text)
}

// processForSender appends the text to the sender's session, opening a new
// one when the sender has none or the old one is gone
func (f *SMTPFrontend) processForSender(ctx context.Context, sender string, text string) (*core.TextResult, error) {
	id, err := f.sessionFor(ctx, sender, false)
	if err != nil {
		return nil, err
	}
	result, err := f.ProcessText(ctx, id, text)
	if errors.Is(err, core.ErrSessionNotFound) || errors.Is(err, core.ErrSessionEnded) {
		if id, err = f.sessionFor(ctx, sender, true); err != nil {
			return nil, err
		}
		result, err = f.ProcessText(ctx, id, text)
	}
	return result, err
}

func (f *SMTPFrontend) sessionFor(ctx context.Context, sender string, renew bool) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if id, ok := f.sessions[sender]; ok && !renew {
		return id, nil
	}
	session, err := f.service.StartSession(ctx)
	if err != nil {
		return "", err
	}
	f.sessions[sender] = session.ID
	return session.ID, nil
}

// moodHeaders renders the headers added to a relayed message
func (f *SMTPFrontend) moodHeaders(result *core.TextResult, analysisErr error) []byte {
	var buf bytes.Buffer
	if analysisErr != nil {
		fmt.Fprintf(&buf, "X-Mood-Analysis-Error: %s\r\n", sanitizeHeaderValue(analysisErr.Error()))
		return buf.Bytes()
	}
	fmt.Fprintf(&buf, "%s: %s\r\n", f.headers.Emotion, result.OverallEmotion)
	fmt.Fprintf(&buf, "%s: %.4f\r\n", f.headers.Confidence, result.Confidence)
	fmt.Fprintf(&buf, "%s: %s; strength=%.2f\r\n", f.headers.Sentiment, result.Sentiment.Polarity, result.Sentiment.Strength)
	fmt.Fprintf(&buf, "%s: %.4f\r\n", f.headers.Coverage, result.Coverage)
	return buf.Bytes()
}

// sendToRelay hands the tagged message to the downstream MTA
func (f *SMTPFrontend) sendToRelay(sender string, recipients []string, data []byte) error {
	relayAddr := net.JoinHostPort(f.relay.Address, fmt.Sprintf("%d", f.relay.Port))

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}

	conn, err := net.DialTimeout("tcp", relayAddr, 10*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to relay: %w", err)
	}
	if err := conn.SetDeadline(time.Now().Add(30 * time.Second)); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set connection deadline: %w", err)
	}

	c := smtp.NewClient(conn)
	defer c.Close()

	if err := c.Hello(hostname); err != nil {
		return fmt.Errorf("EHLO failed: %w", err)
	}
	if err := c.Mail(sender, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}

	recipientOK := false
	for _, recipient := range recipients {
		if err := c.Rcpt(recipient, nil); err != nil {
			f.logger.Warn("RCPT TO failed for recipient",
				zap.String("recipient", recipient),
				zap.Error(err))
			continue
		}
		recipientOK = true
	}
	if !recipientOK {
		return fmt.Errorf("all recipients were rejected")
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}
	if _, err := wc.Write(data); err != nil {
		wc.Close()
		return fmt.Errorf("failed to send message data: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := c.Quit(); err != nil {
		f.logger.Warn("QUIT command failed", zap.Error(err))
	}
	return nil
}

// tagMessage prepends the mood headers to the raw message
func tagMessage(raw []byte, headers []byte) []byte {
	out := make([]byte, 0, len(raw)+len(headers))
	out = append(out, headers...)
	return append(out, raw...)
}

func sanitizeHeaderValue(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}

// smtpBackend implements the go-smtp Backend interface
type smtpBackend struct {
	frontend *SMTPFrontend
}

// NewSession creates a new SMTP session
func (b *smtpBackend) NewSession(_ *smtp.Conn) (smtp.Session, error) {
	return &smtpSession{frontend: b.frontend}, nil
}

// smtpSession implements the go-smtp Session interface
type smtpSession struct {
	frontend   *SMTPFrontend
	sender     string
	recipients []string
}

// Reset resets the session state
func (s *smtpSession) Reset() {
	s.sender = ""
	s.recipients = nil
}

// Mail sets the sender address
func (s *smtpSession) Mail(from string, _ *smtp.MailOptions) error {
	s.sender = from
	return nil
}

// Rcpt adds a recipient
func (s *smtpSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.recipients = append(s.recipients, to)
	return nil
}

// Data analyzes the message text, tags the message and relays it
func (s *smtpSession) Data(r io.Reader) error {
	f := s.frontend

	raw, err := io.ReadAll(r)
	if err != nil {
		f.logger.Error("Failed to read message data", zap.Error(err))
		return err
	}

	tagged, result, analysisErr := f.analyzeMessage(s.sender, raw)

	if f.relay.Enabled {
		if err := f.sendToRelay(s.sender, s.recipients, tagged); err != nil {
			f.logger.Error("Failed to relay message",
				zap.Error(err),
				zap.String("sender", s.sender))
			return err
		}
	} else {
		f.logger.Warn("Relay disabled, message analyzed but not forwarded")
	}

	if analysisErr == nil {
		f.logger.Info("Processed message",
			zap.String("from", s.sender),
			zap.String("emotion", result.OverallEmotion.String()),
			zap.Float64("confidence", result.Confidence),
			zap.String("sentiment", string(result.Sentiment.Polarity)))
	}
	return nil
}

// analyzeMessage extracts the text of a raw message, analyzes it within the
// sender's session and returns the tagged message. Analysis failures are
// recorded in a header instead of rejecting the message.
func (f *SMTPFrontend) analyzeMessage(sender string, raw []byte) ([]byte, *core.TextResult, error) {
	text, err := messageText(raw)
	if err != nil {
		f.logger.Warn("Failed to parse message", zap.String("sender", sender), zap.Error(err))
		return tagMessage(raw, f.moodHeaders(nil, err)), nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := f.processForSender(ctx, sender, text)
	if err != nil {
		f.logger.Warn("Failed to analyze message", zap.String("sender", sender), zap.Error(err))
		return tagMessage(raw, f.moodHeaders(nil, err)), nil, err
	}
	return tagMessage(raw, f.moodHeaders(result, nil)), result, nil
}

// messageText returns the subject and the plain text body of a raw message
func messageText(raw []byte) (string, error) {
	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		return "", err
	}
	body, err := extractTextFromMessage(msg)
	if err != nil {
		return "", err
	}

	subject := msg.Header.Get("Subject")
	if decoded, err := decodeEncodedHeader(subject); err == nil {
		subject = decoded
	}
	if subject == "" {
		return body, nil
	}
	return subject + "\n" + body, nil
}

// Logout handles SMTP logout
func (s *smtpSession) Logout() error {
	return nil
}
