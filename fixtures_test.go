package microioc_test

import (
	"errors"
	"sync/atomic"
)

type Logger interface {
	Log(msg string)
}

type FileLogger struct {
	LogFileLocation string
	Level           int
	Marker          string
	lines           []string
}

func (l *FileLogger) Log(msg string) {
	l.lines = append(l.lines, msg)
}

type ErrorHandler interface {
	Handle(err error)
}

type DefaultErrorHandler struct {
	handled int
}

func (h *DefaultErrorHandler) Handle(error) {
	h.handled++
}

type MailService interface {
	Send(to, body string) error
}

type SMTPMailService struct {
	handler ErrorHandler
	logger  Logger
}

func NewSMTPMailService(handler ErrorHandler, logger Logger) *SMTPMailService {
	return &SMTPMailService{handler: handler, logger: logger}
}

func (s *SMTPMailService) Send(to, body string) error {
	if to == "" {
		err := errors.New("missing recipient")
		s.handler.Handle(err)
		return err
	}
	s.logger.Log("mail to " + to)
	return nil
}

type Handler[T any] interface {
	Handle(msg T) string
}

type Ping struct{}

type Pong struct{}

type PingHandler struct{}

func (PingHandler) Handle(Ping) string { return "ping" }

type AuditPingHandler struct{}

func (*AuditPingHandler) Handle(Ping) string { return "audit" }

type PongHandler struct{}

func (PongHandler) Handle(Pong) string { return "pong" }

type BrokenPingHandler struct{}

func (BrokenPingHandler) Handle(Ping) string { return "broken" }

func NewBrokenPingHandler() (BrokenPingHandler, error) {
	return BrokenPingHandler{}, errors.New("not today")
}

type Connection struct {
	disposed atomic.Int32
}

func (c *Connection) Dispose() {
	c.disposed.Add(1)
}

type File struct {
	closed atomic.Int32
}

func (f *File) Close() error {
	f.closed.Add(1)
	return errors.New("already closed")
}
