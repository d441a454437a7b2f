package feedback_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/maxviazov/shop-admin-console/internal/apiclient"
	"github.com/maxviazov/shop-admin-console/internal/feedback"
)

type timeoutErr struct{ timeout bool }

func (e timeoutErr) Error() string   { return "dial tcp 10.0.0.1:8081: i/o" }
func (e timeoutErr) Timeout() bool   { return e.timeout }
func (e timeoutErr) Temporary() bool { return false }

var _ net.Error = timeoutErr{}

func TestHumanize(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"deadline", fmt.Errorf("list coupons: %w", context.DeadlineExceeded), feedback.MsgTimeout},
		{"canceled", context.Canceled, feedback.MsgCanceled},
		{"429", &apiclient.APIError{Status: 429}, feedback.MsgWait},
		{"404", &apiclient.APIError{Status: 404}, feedback.MsgNotFound},
		{"403", &apiclient.APIError{Status: 403}, feedback.MsgForbidden},
		{"net timeout", timeoutErr{timeout: true}, feedback.MsgTimeout},
		{"net down", timeoutErr{}, feedback.MsgNetwork},
		{"please wait text", errors.New("Please wait 30 seconds before retrying"), feedback.MsgWait},
		{"duplicate text", &apiclient.APIError{Status: 400, Message: "Coupon code already exists"}, feedback.MsgDuplicate},
		{"in use text", &apiclient.APIError{Status: 400, Message: "Brand is in use by 3 products"}, feedback.MsgInUse},
		{"constraint text", errors.New("violates foreign key constraint"), feedback.MsgInUse},
		{"vietnamese not found", errors.New("Không tìm thấy sản phẩm"), feedback.MsgNotFound},
		{"plain conflict", &apiclient.APIError{Status: 409, Message: "version mismatch"}, feedback.MsgInUse},
		{"anything else", errors.New("boom"), feedback.MsgGeneric},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, feedback.Humanize(tc.err))
		})
	}
}

func TestLoadFailed(t *testing.T) {
	assert.Equal(t, feedback.MsgLoadFailed, feedback.LoadFailed(errors.New("boom")))
	assert.Equal(t, feedback.MsgLoadFailed, feedback.LoadFailed(nil))
	assert.Equal(t, feedback.MsgLoadFailed+" "+feedback.MsgTimeout, feedback.LoadFailed(context.DeadlineExceeded))
}

func TestRecorder_KeepsNewestFirst(t *testing.T) {
	r := feedback.NewRecorder(3)
	for i := 1; i <= 5; i++ {
		r.Notify(feedback.Notice{Level: feedback.LevelInfo, Message: fmt.Sprint(i)})
	}

	got := r.Recent(0)
	assert.Len(t, got, 3)
	assert.Equal(t, "5", got[0].Message)
	assert.Equal(t, "3", got[2].Message)
	assert.False(t, got[0].At.IsZero(), "time is stamped on arrival")

	assert.Len(t, r.Recent(2), 2)
	assert.Len(t, r.Recent(10), 3)
}

func TestRecorder_KeepsGivenTime(t *testing.T) {
	r := feedback.NewRecorder(0)
	at := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	r.Notify(feedback.Notice{Message: "x", At: at})
	assert.Equal(t, at, r.Recent(1)[0].At)
}

func TestFanoutAndLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	rec := feedback.NewRecorder(0)
	f := feedback.Fanout{rec, nil, feedback.NewLogNotifier(zerolog.New(&buf)), feedback.Discard{}}

	f.Notify(feedback.Notice{Level: feedback.LevelError, Resource: "brands", Message: feedback.MsgInUse})

	assert.Len(t, rec.Recent(0), 1)
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), `"resource":"brands"`)
	assert.Contains(t, buf.String(), `"module":"feedback"`)
}
