// Package feedback turns errors and outcomes into short user-facing messages (toasts).
package feedback

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/maxviazov/shop-admin-console/internal/apiclient"
)

// User-facing texts. The admin team works in Vietnamese.
const (
	MsgGeneric       = "Đã xảy ra lỗi, vui lòng thử lại sau."
	MsgTimeout       = "Máy chủ phản hồi quá lâu, vui lòng thử lại."
	MsgCanceled      = "Yêu cầu đã bị hủy."
	MsgNetwork       = "Không thể kết nối đến máy chủ."
	MsgWait          = "Thao tác quá nhanh, vui lòng đợi trong giây lát rồi thử lại."
	MsgNotFound      = "Không tìm thấy dữ liệu hoặc dữ liệu đã bị xóa."
	MsgDuplicate     = "Dữ liệu đã tồn tại."
	MsgInUse         = "Không thể thực hiện vì dữ liệu đang được sử dụng."
	MsgForbidden     = "Bạn không có quyền thực hiện thao tác này."
	MsgLoadFailed    = "Không thể tải dữ liệu. Hệ thống sẽ tự thử lại."
	MsgDeleted       = "Xóa thành công."
	MsgStatusChanged = "Cập nhật trạng thái thành công."
	MsgUploaded      = "Tải lên thành công."
)

// substring rules, checked in order against the lowercased error text
var textRules = []struct {
	needles []string
	msg     string
}{
	{[]string{"wait", "too many requests"}, MsgWait},
	{[]string{"not found", "không tìm thấy"}, MsgNotFound},
	{[]string{"already exists", "duplicate", "đã tồn tại"}, MsgDuplicate},
	{[]string{"in use", "constraint", "being used", "đang được sử dụng"}, MsgInUse},
	{[]string{"forbidden", "access denied", "unauthorized"}, MsgForbidden},
}

// Humanize picks the user text for err. Typed causes win over text matching; the
// backend's error bodies are free text, so the rest is substring inspection.
func Humanize(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return MsgTimeout
	case errors.Is(err, context.Canceled):
		return MsgCanceled
	case errors.Is(err, apiclient.ErrRateLimited):
		return MsgWait
	case errors.Is(err, apiclient.ErrNotFound):
		return MsgNotFound
	case errors.Is(err, apiclient.ErrUnauthorized):
		return MsgForbidden
	}

	var apiErr *apiclient.APIError
	if !errors.As(err, &apiErr) {
		var netErr net.Error
		if errors.As(err, &netErr) {
			if netErr.Timeout() {
				return MsgTimeout
			}
			return MsgNetwork
		}
	}

	text := strings.ToLower(err.Error())
	for _, rule := range textRules {
		for _, n := range rule.needles {
			if strings.Contains(text, n) {
				return rule.msg
			}
		}
	}
	if errors.Is(err, apiclient.ErrConflict) {
		return MsgInUse
	}
	return MsgGeneric
}

// LoadFailed is the toast for a failed list fetch: the retry notice, plus the cause
// when it is more specific than the generic text.
func LoadFailed(err error) string {
	msg := Humanize(err)
	if msg == "" || msg == MsgGeneric {
		return MsgLoadFailed
	}
	return MsgLoadFailed + " " + msg
}
