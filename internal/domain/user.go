package domain

import "time"

// StartingCoins is the coin grant given to a user on first sync.
// Sync never touches the balance afterwards.
const StartingCoins = 10

// User is the locally-owned user record. ClerkID, name, email and
// picture are canonical at the identity provider and refreshed on
// every sync; Bio, Coins and the skill relations are local-only.
type User struct {
	ID             string    `json:"userId" db:"id"`
	ClerkID        string    `json:"clerkId" db:"clerk_id"`
	Name           string    `json:"name" db:"name"`
	Email          string    `json:"email" db:"email"`
	Bio            string    `json:"bio" db:"bio"`
	Coins          int       `json:"coins" db:"coins"`
	ProfilePicture string    `json:"profilePicture" db:"profile_picture"`
	SkillsOffered  []Skill   `json:"skillsOffered" db:"-"`
	SkillsWanted   []Skill   `json:"skillsWanted" db:"-"`
	LastActiveAt   time.Time `json:"lastActiveAt" db:"last_active_at"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

// Skill is a skill a user offers or wants to learn. Skill management
// lives elsewhere; this subsystem only expands the relations when
// returning a profile.
type Skill struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Identity is the verified provider-side identity attached to an
// authenticated request. Never persisted.
type Identity struct {
	ClerkUserID string `json:"clerkUserId"`
	SessionID   string `json:"sessionId"`
}
