package gpuwars

import "testing"

func TestCheckWinCondition(t *testing.T) {
	type seat struct {
		id         string
		eliminated bool
		hp         int
		captured   []string
	}
	tests := []struct {
		name  string
		seats []seat
		want  string
	}{
		{
			name:  "nobody left",
			seats: []seat{{id: "a", eliminated: true}, {id: "b", eliminated: true}},
			want:  NoWinner,
		},
		{
			name: "nobody left beats a three-building hold",
			seats: []seat{
				{id: "a", eliminated: true, hp: 10, captured: []string{"b", "c"}},
				{id: "b", eliminated: true, hp: 5}, {id: "c", eliminated: true, hp: 5},
			},
			want: NoWinner,
		},
		{
			name:  "last survivor",
			seats: []seat{{id: "a", hp: 0}, {id: "b", eliminated: true, hp: 50}},
			want:  "a",
		},
		{
			name: "three buildings including own",
			seats: []seat{
				{id: "a", hp: 10, captured: []string{"b", "c"}},
				{id: "b", hp: 5}, {id: "c", hp: 5},
			},
			want: "a",
		},
		{
			name: "destroyed own building does not count",
			seats: []seat{
				{id: "a", hp: 0, captured: []string{"b", "c"}},
				{id: "b", hp: 5}, {id: "c", hp: 5},
			},
			want: "",
		},
		{
			name: "eliminated holder still wins on buildings",
			seats: []seat{
				{id: "a", eliminated: true, hp: 10, captured: []string{"b", "c"}},
				{id: "b", hp: 5}, {id: "c", hp: 5},
			},
			want: "a",
		},
		{
			name:  "game continues",
			seats: []seat{{id: "a", hp: 10}, {id: "b", hp: 10}},
			want:  "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := &GameState{}
			for _, s := range tt.seats {
				gs.Factions = append(gs.Factions, &Faction{
					ID:                s.id,
					Eliminated:        s.eliminated,
					BuildingHP:        s.hp,
					CapturedBuildings: s.captured,
				})
			}
			if got := gs.CheckWinCondition(); got != tt.want {
				t.Errorf("CheckWinCondition() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCloneDeepCopiesPending(t *testing.T) {
	gs := &GameState{
		PendingTarget: &PendingTargetSelection{ActorID: "a", ValidTargets: []string{"b", "c"}},
		PendingAttack: &PendingAttack{AttackerID: "a", DefenderID: "b", Damage: 10},
	}
	c := gs.Clone()
	c.PendingTarget.ValidTargets[0] = "z"
	c.PendingAttack.Damage = 99

	if gs.PendingTarget.ValidTargets[0] != "b" || gs.PendingAttack.Damage != 10 {
		t.Error("clone shares pending state with the original")
	}
}
