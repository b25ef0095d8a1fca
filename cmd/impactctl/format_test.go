package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1500, "1.50 K"},
		{2_500_000, "2.50 M"},
		{7.8e9, "7.80 B"},
		{1.36e12, "1.36 T"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatNumber(tt.in), "formatNumber(%g)", tt.in)
	}
}

func TestFormatEnergy(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{5e6, "5.00 MJ"},
		{2e9, "2.00 GJ"},
		{3.5e12, "3.50 TJ"},
		{1.5315264e17, "153.15 PJ"},
		{4.2e23, "420000.00 EJ"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatEnergy(tt.in), "formatEnergy(%g)", tt.in)
	}
}

func TestFormatTNT(t *testing.T) {
	assert.Equal(t, "36.60 M tons TNT", formatTNT(36604359.91))
	assert.Equal(t, "12 tons TNT", formatTNT(12))
}
