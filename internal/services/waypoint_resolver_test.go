package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"hazard-route-service/internal/domain"
)

func TestResolveRanksLocalFirstAndCaps(t *testing.T) {
	local := &fakePlaces{}
	for i := 0; i < 6; i++ {
		local.out = append(local.out, cand(fmt.Sprintf("local-%d", i), 1, 2, domain.OriginLocalSearch))
	}
	local.out = append(local.out, domain.Candidate{Name: "no coords", Origin: domain.OriginLocalSearch})

	ext := &fakeGeocoder{}
	for i := 0; i < 5; i++ {
		ext.out = append(ext.out, cand(fmt.Sprintf("ext-%d", i), 3, 4, domain.OriginExternalGeocoder))
	}

	r := NewWaypointResolver(local, ext)
	got, err := r.Resolve(context.Background(), "main street")
	if err != nil {
		t.Fatalf("Resolve() err = %v", err)
	}

	if len(got) != MaxCandidates {
		t.Fatalf("got %d candidates, want %d", len(got), MaxCandidates)
	}
	for i := 0; i < 6; i++ {
		if got[i].Origin != domain.OriginLocalSearch {
			t.Errorf("candidate %d origin = %q, want local", i, got[i].Origin)
		}
	}
	if got[6].Name != "ext-0" || got[7].Name != "ext-1" {
		t.Errorf("external tail = %q, %q", got[6].Name, got[7].Name)
	}
	for _, c := range got {
		if !c.HasCoords() {
			t.Errorf("candidate %q has no coordinates", c.Name)
		}
	}
	if ext.limit != 5 {
		t.Errorf("external limit = %d, want 5", ext.limit)
	}
}

func TestResolveDegradesSilently(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name     string
		local    *fakePlaces
		ext      *fakeGeocoder
		wantName string
		wantErr  error
	}{
		{
			name:     "local fails",
			local:    &fakePlaces{err: boom},
			ext:      &fakeGeocoder{out: []domain.Candidate{cand("ext", 1, 1, domain.OriginExternalGeocoder)}},
			wantName: "ext",
		},
		{
			name:     "external fails",
			local:    &fakePlaces{out: []domain.Candidate{cand("loc", 1, 1, domain.OriginLocalSearch)}},
			ext:      &fakeGeocoder{err: boom},
			wantName: "loc",
		},
		{
			name:    "both fail",
			local:   &fakePlaces{err: boom},
			ext:     &fakeGeocoder{err: boom},
			wantErr: domain.ErrWaypointNotFound,
		},
		{
			name:    "both empty",
			local:   &fakePlaces{},
			ext:     &fakeGeocoder{out: []domain.Candidate{{Name: "coordless"}}},
			wantErr: domain.ErrWaypointNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NewWaypointResolver(tc.local, tc.ext).Resolve(context.Background(), "q")
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("err = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != 1 || got[0].Name != tc.wantName {
				t.Fatalf("got %+v, want single %q", got, tc.wantName)
			}
		})
	}
}

func TestResolveNilSourcesAndEmptyQuery(t *testing.T) {
	r := NewWaypointResolver(nil, &fakeGeocoder{out: []domain.Candidate{cand("only", 1, 1, domain.OriginExternalGeocoder)}})
	got, err := r.Resolve(context.Background(), "x")
	if err != nil || len(got) != 1 {
		t.Fatalf("got %v, %v", got, err)
	}

	if _, err := r.Resolve(context.Background(), "   "); !errors.Is(err, domain.ErrInvalidWaypoints) {
		t.Errorf("empty query err = %v", err)
	}
}
