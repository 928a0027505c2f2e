// Copyright (c) 2026 Benchbook Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package backend

const (
	CurrentSchemaVersion = 1
	CurrentAppVersion    = "0.1.0"
)

// Entity statuses
const (
	StatusScheduled = "scheduled"
	StatusFinal     = "final"
	StatusDeleted   = "deleted"
)

// Tracked field positions. Only pitcher and catcher assignments feed
// the safety rules; other positions are free-form roster data.
const (
	PositionPitcher = "pitcher"
	PositionCatcher = "catcher"
)

// Home/away designation for a game.
const (
	SideHome = "home"
	SideAway = "away"
)

// League age bounds accepted at input validation. The rule engine only
// restricts ages it has bands for; validation just rejects obviously
// malformed entries.
const (
	MinLeagueAge = 4
	MaxLeagueAge = 18
)

// maxPitchTally rejects absurd manual entries before they reach the
// rule engine, which does not cap counts itself. The bound keeps the
// effective count (tally+1) inside the top rest range, so a banded
// player always gets a next eligible date.
const maxPitchTally = 998
