// Package notify posts a run summary to an IFTTT webhook. Notification
// failures are logged and never fatal: missing a phone ping is cheaper
// than failing a batch that already moved its files.
package notify

import (
	"context"
	"strings"
	"time"

	"copymedia/internal/errors"
	"copymedia/internal/log"
	"copymedia/pkg/types"

	"github.com/go-resty/resty/v2"
)

// TriggerURLBase is the IFTTT maker endpoint the trigger key is
// appended to.
const TriggerURLBase = "https://maker.ifttt.com/trigger/PLEX_NEW/with/key"

// Service is the notification surface the runner talks to.
type Service interface {
	// SeriesMoved announces the series names of the given matches.
	// An empty match list sends nothing.
	SeriesMoved(ctx context.Context, matches []types.Match) error
}

// NewService builds an IFTTT-backed notifier for the given trigger URL.
// When url is empty, a noop implementation is returned.
func NewService(url string) Service {
	if strings.TrimSpace(url) == "" {
		return noopService{}
	}
	return &iftttService{
		url:  url,
		http: resty.New().SetTimeout(10 * time.Second),
	}
}

// TriggerURL composes the full webhook URL from an IFTTT key, which may
// come from the -i flag or the fourth deluge argument.
func TriggerURL(key string) string {
	return TriggerURLBase + "/" + key
}

// JoinNames concatenates the matched series names with " and ". Names
// are not deduplicated: two files matching the same series list it
// twice, mirroring what actually moved.
func JoinNames(matches []types.Match) string {
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m.Rule.Name)
	}
	return strings.Join(names, " and ")
}

type iftttService struct {
	url  string
	http *resty.Client
}

func (s *iftttService) SeriesMoved(ctx context.Context, matches []types.Match) error {
	if len(matches) == 0 {
		return nil
	}

	names := JoinNames(matches)
	log.Debugf("Sending notification with name string: [%s] to IFTTT", names)

	resp, err := s.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{"value1": names}).
		Post(s.url)
	if err != nil {
		return errors.Wrap(err, "IFTTT notification failed")
	}

	log.Debugf("IFTTT POST status: [%d] with reason: [%s]", resp.StatusCode(), resp.Status())
	if resp.IsError() {
		return errors.Newf("IFTTT notification returned status %d", resp.StatusCode())
	}
	return nil
}

type noopService struct{}

func (noopService) SeriesMoved(context.Context, []types.Match) error { return nil }
