package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRoomTier(t *testing.T) {
	cases := []struct {
		roomType string
		want     RoomTier
	}{
		{"1 Giường", Tier1Bed},
		{"Phòng riêng", Tier1Bed},
		{"phòng RIÊNG vip", Tier1Bed},
		{"2 Giường", Tier2Bed},
		{"phong 2 nguoi", Tier2Bed},
		{"3 Giường", Tier3Bed},
		{"4 Giường", Tier4Bed},
		{"phòng chung", Tier4Bed},
		{"", Tier4Bed},
		{"   ", Tier4Bed},
		{"không rõ", Tier4Bed},
	}

	for _, tc := range cases {
		assert.Equalf(t, tc.want, NormalizeRoomTier(tc.roomType), "roomType=%q", tc.roomType)
	}
}

func TestCareTierCode(t *testing.T) {
	assert.Equal(t, "CL2_2-bed", CareTierCode(2, Tier2Bed))
	assert.Equal(t, "CL4_1-bed", CareTierCode(4, Tier1Bed))
}
