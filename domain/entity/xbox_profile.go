package entity

import (
	"fmt"
)

// XboxProfile represents the resolved identity of the monitored gamertag.
// Resolved once at monitor start; an unresolvable gamertag is fatal.
type XboxProfile struct {
	gamertag string
	xuid     string
	realName string
	location string
	bio      string
}

// NewXboxProfile creates a new XboxProfile with validation
func NewXboxProfile(gamertag string, xuid string) (*XboxProfile, error) {
	if gamertag == "" {
		return nil, fmt.Errorf("gamertag cannot be empty")
	}
	if xuid == "" || xuid == "0" {
		return nil, fmt.Errorf("xuid cannot be empty")
	}

	return &XboxProfile{
		gamertag: gamertag,
		xuid:     xuid,
	}, nil
}

// NewXboxProfileWithDetails creates a profile carrying the optional
// display settings the API exposes alongside the XUID
func NewXboxProfileWithDetails(gamertag string, xuid string, realName string, location string, bio string) (*XboxProfile, error) {
	profile, err := NewXboxProfile(gamertag, xuid)
	if err != nil {
		return nil, err
	}
	profile.realName = realName
	profile.location = location
	profile.bio = bio
	return profile, nil
}

// Gamertag returns the monitored handle
func (p *XboxProfile) Gamertag() string {
	return p.gamertag
}

// XUID returns the numeric identity as the API reports it
func (p *XboxProfile) XUID() string {
	return p.xuid
}

// RealName returns the profile's real name setting, empty when unset
func (p *XboxProfile) RealName() string {
	return p.realName
}

// Location returns the profile's location setting, empty when unset
func (p *XboxProfile) Location() string {
	return p.location
}

// Bio returns the profile's bio setting, empty when unset
func (p *XboxProfile) Bio() string {
	return p.bio
}
