package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/liquorlocker/internal/apperr"
	"github.com/erazemk/liquorlocker/internal/model"
)

// fakeTransport answers with canned JSON or a canned error and records every
// call.
type fakeTransport struct {
	mu    sync.Mutex
	calls []string
	resp  string
	err   error
	// during runs inside the call, while the store is loading.
	during func()
}

func (f *fakeTransport) record(method, path string) error {
	f.mu.Lock()
	f.calls = append(f.calls, method+" "+path)
	during := f.during
	f.mu.Unlock()
	if during != nil {
		during()
	}
	return f.err
}

func (f *fakeTransport) decode(out any) error {
	if out == nil || f.resp == "" {
		return nil
	}
	return json.Unmarshal([]byte(f.resp), out)
}

func (f *fakeTransport) Get(_ context.Context, path string, out any) error {
	if err := f.record("GET", path); err != nil {
		return err
	}
	return f.decode(out)
}

func (f *fakeTransport) Post(_ context.Context, path string, _, out any) error {
	if err := f.record("POST", path); err != nil {
		return err
	}
	return f.decode(out)
}

func (f *fakeTransport) Put(_ context.Context, path string, _, out any) error {
	if err := f.record("PUT", path); err != nil {
		return err
	}
	return f.decode(out)
}

func (f *fakeTransport) Delete(_ context.Context, path string) error {
	return f.record("DELETE", path)
}

func (f *fakeTransport) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func fixedClock() time.Time {
	return time.Date(2024, time.March, 9, 15, 30, 0, 0, time.Local)
}

func names(bottles []model.Bottle) []string {
	out := make([]string, len(bottles))
	for i, b := range bottles {
		out[i] = b.Name
	}
	return out
}

func TestListReplacesCollection(t *testing.T) {
	ft := &fakeTransport{resp: `[{"id":2,"name":"Bowmore","opened":false,"open_date":null,"purchase_date":null,"price":null},
		{"id":1,"name":"Ardbeg","opened":true,"open_date":"2024-01-05","purchase_date":null,"price":55}]`}
	s := NewBottles(ft)

	require.NoError(t, s.List(context.Background()))
	assert.Equal(t, []string{"Bowmore", "Ardbeg"}, names(s.Items()))
	assert.Empty(t, s.Err())
	assert.False(t, s.Loading())
	assert.Equal(t, []string{"GET /bottles"}, ft.Calls())
}

func TestListNullIsEmpty(t *testing.T) {
	s := NewMixers(&fakeTransport{resp: `null`})

	require.NoError(t, s.List(context.Background()))
	assert.NotNil(t, s.Items())
	assert.Empty(t, s.Items())
}

func TestListFailureKeepsItems(t *testing.T) {
	ft := &fakeTransport{resp: `[{"id":1,"name":"Ardbeg"}]`}
	s := NewBottles(ft)
	require.NoError(t, s.List(context.Background()))

	ft.err = apperr.Transport(errors.New("connection refused"))
	err := s.List(context.Background())

	require.Error(t, err)
	assert.Equal(t, apperr.KindTransport, apperr.KindOf(err))
	assert.Equal(t, "Unable to load bottles. Please check your connection and try again.", s.Err())
	assert.Equal(t, []string{"Ardbeg"}, names(s.Items()))
	assert.False(t, s.Loading())
}

func TestHTTPErrorMessageIsBody(t *testing.T) {
	ft := &fakeTransport{err: apperr.HTTP(404, "Fresh item with ID 3 not found\n")}
	s := NewFresh(ft)

	_, err := s.Update(context.Background(), 3, model.FreshInput{Name: "Orgeat"})

	require.Error(t, err)
	assert.Equal(t, "http:404", apperr.As(err).Tag())
	assert.Equal(t, "Fresh item with ID 3 not found", s.Err())
}

func TestLoadingDuringOperation(t *testing.T) {
	ft := &fakeTransport{resp: `[]`}
	s := NewBottles(ft)

	var sawLoading bool
	ft.during = func() { sawLoading = s.Loading() }

	require.NoError(t, s.List(context.Background()))
	assert.True(t, sawLoading)
	assert.False(t, s.Loading())
}

func TestErrorClearedOnNextOperation(t *testing.T) {
	ft := &fakeTransport{err: apperr.Transport(errors.New("down"))}
	s := NewBottles(ft)

	require.Error(t, s.List(context.Background()))
	require.NotEmpty(t, s.Err())

	ft.err = nil
	ft.resp = `[]`
	require.NoError(t, s.List(context.Background()))
	assert.Empty(t, s.Err())
	assert.Nil(t, s.LastError())
}

func TestCreateValidationSkipsNetwork(t *testing.T) {
	ft := &fakeTransport{}
	s := NewBottles(ft)
	negative, _ := model.NewPrice("-3")

	_, err := s.Create(context.Background(), model.BottleInput{Name: "   "})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Equal(t, "Name is required.", s.Err())

	_, err = s.Create(context.Background(), model.BottleInput{Name: "Talisker", Price: negative})
	require.Error(t, err)
	assert.Equal(t, "Price cannot be negative.", s.Err())

	assert.Empty(t, ft.Calls())
	assert.Empty(t, s.Items())
}

func TestCreatePrepends(t *testing.T) {
	ft := &fakeTransport{resp: `[{"id":1,"name":"Ardbeg"}]`}
	s := NewBottles(ft)
	require.NoError(t, s.List(context.Background()))

	ft.resp = `{"id":2,"name":"Bowmore"}`
	created, err := s.Create(context.Background(), model.BottleInput{Name: "Bowmore"})

	require.NoError(t, err)
	assert.Equal(t, int64(2), created.ID)
	assert.Equal(t, []string{"Bowmore", "Ardbeg"}, names(s.Items()))
}

func TestCreateFailureLeavesCollection(t *testing.T) {
	ft := &fakeTransport{resp: `[{"id":1,"name":"Ardbeg"}]`}
	s := NewBottles(ft)
	require.NoError(t, s.List(context.Background()))

	ft.err = apperr.Transport(errors.New("timeout"))
	_, err := s.Create(context.Background(), model.BottleInput{Name: "Bowmore"})

	require.Error(t, err)
	assert.Equal(t, "Unable to save bottle. Please try again.", s.Err())
	assert.Len(t, s.Items(), 1)
}

func TestUpdateReplacesInPlace(t *testing.T) {
	ft := &fakeTransport{resp: `[{"id":3,"name":"C"},{"id":2,"name":"B"},{"id":1,"name":"A"}]`}
	s := NewBottles(ft)
	require.NoError(t, s.List(context.Background()))

	ft.resp = `{"id":2,"name":"B2","opened":true,"open_date":"2024-03-09"}`
	updated, err := s.Update(context.Background(), 2, model.BottleInput{Name: "B2", Openable: model.Openable{Opened: true}})

	require.NoError(t, err)
	assert.True(t, updated.Opened)
	assert.Equal(t, []string{"C", "B2", "A"}, names(s.Items()))
	assert.Equal(t, "PUT /bottles/2", ft.Calls()[1])
}

func TestUpdateFailureLeavesCollection(t *testing.T) {
	ft := &fakeTransport{resp: `[{"id":1,"name":"A"}]`}
	s := NewBottles(ft)
	require.NoError(t, s.List(context.Background()))

	ft.err = apperr.Transport(errors.New("reset"))
	_, err := s.Update(context.Background(), 1, model.BottleInput{Name: "A2"})

	require.Error(t, err)
	assert.Equal(t, "Unable to update bottle. Please try again.", s.Err())
	assert.Equal(t, []string{"A"}, names(s.Items()))
}

func TestDelete(t *testing.T) {
	ft := &fakeTransport{resp: `[{"id":2,"name":"B"},{"id":1,"name":"A"}]`}
	s := NewBottles(ft)
	require.NoError(t, s.List(context.Background()))

	assert.True(t, s.Delete(context.Background(), 2))
	assert.Equal(t, []string{"A"}, names(s.Items()))

	ft.err = apperr.HTTP(404, "Bottle with ID 2 not found")
	assert.False(t, s.Delete(context.Background(), 2))
	assert.Equal(t, "Bottle with ID 2 not found", s.Err())
	assert.Len(t, s.Items(), 1)
}

func TestDeleteTransportFallback(t *testing.T) {
	ft := &fakeTransport{err: apperr.Transport(errors.New("down"))}
	s := NewFresh(ft)

	assert.False(t, s.Delete(context.Background(), 1))
	assert.Equal(t, "Unable to delete fresh item. Please try again.", s.Err())
}

func TestCreateOpenedDefaultsToToday(t *testing.T) {
	var sent model.BottleInput
	ft := &capturingTransport{onPost: func(in any) { sent = in.(model.BottleInput) }}
	s := NewBottles(ft, WithClock(fixedClock))

	_, err := s.Create(context.Background(), model.BottleInput{Name: "Lagavulin 16", Openable: model.Openable{Opened: true}})

	require.NoError(t, err)
	require.NotNil(t, sent.OpenDate)
	assert.Equal(t, model.Date{Year: 2024, Month: time.March, Day: 9}, *sent.OpenDate)
}

func TestClosedDraftDropsOpenDate(t *testing.T) {
	var sent model.MixerInput
	ft := &capturingTransport{onPut: func(in any) { sent = in.(model.MixerInput) }}
	s := NewMixers(ft, WithClock(fixedClock))

	_, err := s.Update(context.Background(), 1, model.MixerInput{
		Name:     "Tonic",
		Openable: model.Openable{Opened: false, OpenDate: model.NewDate(2024, time.January, 1)},
	})

	require.NoError(t, err)
	assert.Nil(t, sent.OpenDate)
}

func TestSubscribeNotified(t *testing.T) {
	s := NewBottles(&fakeTransport{resp: `[]`})
	var n int
	s.Subscribe(func() { n++ })

	require.NoError(t, s.List(context.Background()))
	assert.GreaterOrEqual(t, n, 2)
}

// capturingTransport hands request bodies to callbacks and answers with an
// empty record.
type capturingTransport struct {
	onPost func(any)
	onPut  func(any)
}

func (c *capturingTransport) Get(context.Context, string, any) error { return nil }

func (c *capturingTransport) Post(_ context.Context, _ string, in, _ any) error {
	if c.onPost != nil {
		c.onPost(in)
	}
	return nil
}

func (c *capturingTransport) Put(_ context.Context, _ string, in, _ any) error {
	if c.onPut != nil {
		c.onPut(in)
	}
	return nil
}

func (c *capturingTransport) Delete(context.Context, string) error { return nil }
