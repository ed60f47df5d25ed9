package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"

	appErrors "github.com/unclebandit/dinerreach/internal/errors"
	"github.com/unclebandit/dinerreach/internal/model"
	"github.com/unclebandit/dinerreach/internal/queue"
	"github.com/unclebandit/dinerreach/internal/service"
)

func newComposer(repo *MockCampaignRepo, sug service.Suggester, n *MockNotifier) *service.Composer {
	log, _ := test.NewNullLogger()
	var notifier service.Notifier
	if n != nil {
		notifier = n
	}
	c := service.NewComposer(repo, sug, notifier, nil, log)
	c.Now = func() time.Time { return time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC) }
	return c
}

func fullDraft(ch model.Channel) service.Draft {
	return service.Draft{Name: "Spring", OfferTitle: "20% Off", Message: "Come in this weekend", Channel: ch}
}

func TestComposerDefaultsToEmail(t *testing.T) {
	c := newComposer(&MockCampaignRepo{}, &MockSuggester{}, nil)
	st := c.State()
	if st.Draft.Channel != model.ChannelEmail {
		t.Errorf("expected email channel, got %q", st.Draft.Channel)
	}
	if st.CanSend {
		t.Errorf("empty draft must not be sendable")
	}
}

func TestSetDraftRejectsUnknownChannel(t *testing.T) {
	c := newComposer(&MockCampaignRepo{}, &MockSuggester{}, nil)
	err := c.SetDraft(service.Draft{Name: "x", Channel: "fax"})
	if !errors.Is(err, appErrors.ErrInvalidChannel) {
		t.Errorf("expected ErrInvalidChannel, got %v", err)
	}
}

func TestSendCampaignSMS(t *testing.T) {
	repo := &MockCampaignRepo{}
	notifier := &MockNotifier{}
	c := newComposer(repo, &MockSuggester{}, notifier)
	if err := c.SetDraft(fullDraft(model.ChannelSMS)); err != nil {
		t.Fatalf("set draft: %v", err)
	}

	recipients := sampleRoster()[:3]
	got, err := c.SendCampaign(context.Background(), recipients)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if repo.createCalls() != 1 {
		t.Fatalf("expected exactly one insert, got %d", repo.createCalls())
	}
	stored := repo.Created[0]
	if stored.Channel != model.ChannelSMS || stored.Type != model.ChannelSMS {
		t.Errorf("expected sms channel and type, got %q/%q", stored.Channel, stored.Type)
	}
	if stored.Status != model.StatusCompleted || stored.Recipients != 3 {
		t.Errorf("expected completed with 3 recipients, got %s/%d", stored.Status, stored.Recipients)
	}
	if stored.Opened != 0 || stored.Clicked != 0 || stored.Revenue.Valid {
		t.Errorf("expected zero engagement and absent revenue, got %+v", stored)
	}
	if stored.SentAt == nil {
		t.Errorf("expected sent date to be set")
	}
	if got.ID != 1 {
		t.Errorf("expected echoed id 1, got %d", got.ID)
	}

	st := c.State()
	if st.Draft.Name != "" || st.Draft.OfferTitle != "" || st.Draft.Message != "" {
		t.Errorf("expected text fields cleared, got %+v", st.Draft)
	}
	if st.Draft.Channel != model.ChannelSMS {
		t.Errorf("channel should be kept, got %q", st.Draft.Channel)
	}

	if len(notifier.Events) != 1 || notifier.Events[0].Topic != queue.TopicCampaignCreated {
		t.Errorf("expected one campaign created event, got %+v", notifier.Events)
	}
}

func TestSendCampaignMissingOfferTitle(t *testing.T) {
	repo := &MockCampaignRepo{}
	c := newComposer(repo, &MockSuggester{}, nil)
	c.SetDraft(service.Draft{Name: "Spring", Message: "hello", Channel: model.ChannelEmail})

	_, err := c.SendCampaign(context.Background(), sampleRoster())

	var verr *appErrors.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(verr.Missing) != 1 || verr.Missing[0] != "offer_title" {
		t.Errorf("expected offer_title missing, got %v", verr.Missing)
	}
	if repo.createCalls() != 0 {
		t.Errorf("store must not be called on validation failure")
	}
}

func TestSendCampaignStoreFailureKeepsDraft(t *testing.T) {
	repo := &MockCampaignRepo{CreateErr: errStore}
	notifier := &MockNotifier{}
	c := newComposer(repo, &MockSuggester{}, notifier)
	c.SetDraft(fullDraft(model.ChannelEmail))

	_, err := c.SendCampaign(context.Background(), sampleRoster())

	var perr *appErrors.PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	if !errors.Is(err, errStore) {
		t.Errorf("expected underlying store error to be wrapped")
	}
	if st := c.State(); st.Draft != fullDraft(model.ChannelEmail) {
		t.Errorf("draft changed after failure: %+v", st.Draft)
	}
	if st := c.State(); st.Sending {
		t.Errorf("sending flag left set")
	}
	if len(notifier.Events) != 0 {
		t.Errorf("no event expected on failure")
	}
}

func TestSendCampaignNotifierFailureIsNotFatal(t *testing.T) {
	repo := &MockCampaignRepo{}
	c := newComposer(repo, &MockSuggester{}, &MockNotifier{Err: errors.New("broker down")})
	c.SetDraft(fullDraft(model.ChannelEmail))

	if _, err := c.SendCampaign(context.Background(), nil); err != nil {
		t.Fatalf("notifier failure must not fail the send: %v", err)
	}
}

func TestSendCampaignBusy(t *testing.T) {
	repo := &MockCampaignRepo{Block: make(chan struct{})}
	c := newComposer(repo, &MockSuggester{}, nil)
	c.SetDraft(fullDraft(model.ChannelEmail))

	done := make(chan error, 1)
	go func() {
		_, err := c.SendCampaign(context.Background(), nil)
		done <- err
	}()

	deadline := time.After(time.Second)
	for !c.State().Sending {
		select {
		case <-deadline:
			t.Fatalf("first send never started")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	if _, err := c.SendCampaign(context.Background(), nil); !errors.Is(err, appErrors.ErrBusy) {
		t.Errorf("expected ErrBusy, got %v", err)
	}

	close(repo.Block)
	if err := <-done; err != nil {
		t.Fatalf("first send failed: %v", err)
	}
	if repo.createCalls() != 1 {
		t.Errorf("expected a single insert, got %d", repo.createCalls())
	}
}

func TestSendCampaignIgnoresCallerCancellation(t *testing.T) {
	repo := &MockCampaignRepo{}
	c := newComposer(repo, &MockSuggester{}, nil)
	c.SetDraft(fullDraft(model.ChannelEmail))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.SendCampaign(ctx, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGenerateOffer(t *testing.T) {
	want := model.Suggestion{Title: "Happy Hour Extended", Message: "Discounted drinks until 7 PM"}
	c := newComposer(&MockCampaignRepo{}, &MockSuggester{Suggestion: want}, nil)
	c.SetDraft(service.Draft{Name: "Spring"})

	got, err := c.GenerateOffer(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
	st := c.State()
	if st.Draft.OfferTitle != want.Title || st.Draft.Message != want.Message || st.Draft.Name != "Spring" {
		t.Errorf("unexpected draft after generation: %+v", st.Draft)
	}
	if st.Generating {
		t.Errorf("generating flag left set")
	}
}

func TestGenerateOfferBusy(t *testing.T) {
	sug := &MockSuggester{Block: make(chan struct{}), Suggestion: model.Suggestion{Title: "t", Message: "m"}}
	c := newComposer(&MockCampaignRepo{}, sug, nil)

	done := make(chan error, 1)
	go func() {
		_, err := c.GenerateOffer(context.Background())
		done <- err
	}()

	deadline := time.After(time.Second)
	for !c.State().Generating {
		select {
		case <-deadline:
			t.Fatalf("generation never started")
		default:
			time.Sleep(time.Millisecond)
		}
	}
	if _, err := c.GenerateOffer(context.Background()); !errors.Is(err, appErrors.ErrBusy) {
		t.Errorf("expected ErrBusy, got %v", err)
	}
	close(sug.Block)
	if err := <-done; err != nil {
		t.Fatalf("generation failed: %v", err)
	}
}

func TestApplySuggestionAndPreview(t *testing.T) {
	c := newComposer(&MockCampaignRepo{}, &MockSuggester{}, nil)

	p := c.Preview()
	if p.Heading != "EMAIL SUBJECT" || p.Title != "Your offer title will appear here" {
		t.Errorf("unexpected empty preview: %+v", p)
	}

	c.SetDraft(service.Draft{Channel: model.ChannelSMS})
	c.ApplySuggestion(model.Suggestion{Title: "Free Appetizer Special", Message: "On us"})

	p = c.Preview()
	if p.Heading != "SMS MESSAGE" || p.Title != "Free Appetizer Special" || p.Message != "On us" {
		t.Errorf("unexpected preview: %+v", p)
	}
}
