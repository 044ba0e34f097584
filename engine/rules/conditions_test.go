package rules

import (
	"testing"

	"github.com/nathoo/lockedstudy/engine/parser"
	"github.com/nathoo/lockedstudy/engine/resolve"
	"github.com/nathoo/lockedstudy/types"
)

func TestIsMidnight(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"set clock to midnight", true},
		{"set clock to 12:00", true},
		{"set clock to 1200", true},
		{"turn clock to 12", true},
		{"set clock to MIDNIGHT", true},
		{"set clock to 3", false},
		{"set clock", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsMidnight(parser.Interpret(tt.input)); got != tt.want {
				t.Errorf("IsMidnight(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDiaryAvailable(t *testing.T) {
	tests := []struct {
		name string
		rs   types.RoomState
		inv  []types.InventoryItem
		want bool
	}{
		{"nothing found", types.RoomState{}, nil, false},
		{"bookshelf examined", types.RoomState{BookshelfExamined: true}, nil, true},
		{"diary flag", types.RoomState{DiaryFound: true}, nil, true},
		{"diary carried", types.RoomState{}, []types.InventoryItem{{Name: "Small Diary"}}, true},
	}
	for _, tt := range tests {
		if got := DiaryAvailable(tt.rs, tt.inv); got != tt.want {
			t.Errorf("%s: DiaryAvailable = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestKeyConditions(t *testing.T) {
	desk := []types.InventoryItem{resolve.DeskKey}
	golden := []types.InventoryItem{resolve.GoldenKey}

	if !HasDeskKey(desk) || HasDeskKey(golden) {
		t.Error("HasDeskKey wrong")
	}
	if !HasGoldenKey(golden) || HasGoldenKey(desk) {
		t.Error("HasGoldenKey wrong")
	}
	if HasDeskKey(nil) || HasGoldenKey(nil) {
		t.Error("empty inventory holds no key")
	}
}
