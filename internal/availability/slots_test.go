package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFreeWindows(t *testing.T) {
	day := []Window{{Start: 540, End: 1020}} // 09:00-17:00

	tests := []struct {
		name string
		busy []Window
		want []Window
	}{
		{
			name: "no bookings",
			want: []Window{{Start: 540, End: 1020}},
		},
		{
			name: "one booking in the middle",
			busy: []Window{{Start: 600, End: 660}},
			want: []Window{{Start: 540, End: 600}, {Start: 660, End: 1020}},
		},
		{
			name: "booking at opening",
			busy: []Window{{Start: 540, End: 600}},
			want: []Window{{Start: 600, End: 1020}},
		},
		{
			name: "back to back bookings",
			busy: []Window{{Start: 600, End: 660}, {Start: 660, End: 720}},
			want: []Window{{Start: 540, End: 600}, {Start: 720, End: 1020}},
		},
		{
			name: "unordered busy input",
			busy: []Window{{Start: 900, End: 960}, {Start: 600, End: 660}},
			want: []Window{{Start: 540, End: 600}, {Start: 660, End: 900}, {Start: 960, End: 1020}},
		},
		{
			name: "fully booked",
			busy: []Window{{Start: 540, End: 1020}},
			want: nil,
		},
		{
			name: "busy outside window ignored",
			busy: []Window{{Start: 0, End: 480}},
			want: []Window{{Start: 540, End: 1020}},
		},
		{
			name: "busy overlapping window edge",
			busy: []Window{{Start: 480, End: 600}},
			want: []Window{{Start: 600, End: 1020}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FreeWindows(day, tt.busy))
		})
	}
}

func TestFreeWindowsMultipleWindows(t *testing.T) {
	windows := []Window{{Start: 540, End: 720}, {Start: 780, End: 1020}}
	busy := []Window{{Start: 600, End: 840}}

	assert.Equal(t,
		[]Window{{Start: 540, End: 600}, {Start: 840, End: 1020}},
		FreeWindows(windows, busy),
	)
}
