package model

import "time"

// CharacterRace is the playable race of a character
type CharacterRace string

const (
	RaceHyur     CharacterRace = "hyur"
	RaceElezen   CharacterRace = "elezen"
	RaceLalafell CharacterRace = "lalafell"
	RaceMiqote   CharacterRace = "miqote"
	RaceRoegadyn CharacterRace = "roegadyn"
	RaceAuRa     CharacterRace = "au_ra"
	RaceHrothgar CharacterRace = "hrothgar"
	RaceViera    CharacterRace = "viera"
)

// IsValid returns true if the race is known
func (r CharacterRace) IsValid() bool {
	switch r {
	case RaceHyur, RaceElezen, RaceLalafell, RaceMiqote, RaceRoegadyn, RaceAuRa, RaceHrothgar, RaceViera:
		return true
	default:
		return false
	}
}

// Character is a player character owned by a user
type Character struct {
	ID           string                 `json:"id"`
	UserID       string                 `json:"-"`
	Name         string                 `json:"name"`
	Race         CharacterRace          `json:"race"`
	World        string                 `json:"world"`
	FreeCompany  *FreeCompany           `json:"free_company"`
	CustomFields []CharacterCustomField `json:"custom_fields"`
	CreatedOn    time.Time              `json:"created_on"`
	UpdatedOn    time.Time              `json:"updated_on"`
}

// CharacterCustomField holds the values a character has picked for one of
// the owner's custom fields
type CharacterCustomField struct {
	Label    string   `json:"label" validate:"required,max=255"`
	Values   []string `json:"values"`
	Position int      `json:"position" validate:"min=0"`
}

// CharacterRequest creates or replaces a character
type CharacterRequest struct {
	Name  string        `json:"name" validate:"required,max=255"`
	Race  CharacterRace `json:"race" validate:"required,oneof=hyur elezen lalafell miqote roegadyn au_ra hrothgar viera"`
	World string        `json:"world" validate:"required,max=255"`

	// FreeCompanyID links one of the user's free companies, empty for none
	FreeCompanyID string                 `json:"free_company_id,omitempty"`
	CustomFields  []CharacterCustomField `json:"custom_fields" validate:"dive"`
}

// CrafterJob is a disciple of the hand or land
type CrafterJob string

const (
	CrafterCarpenter     CrafterJob = "carpenter"
	CrafterBlacksmith    CrafterJob = "blacksmith"
	CrafterArmorer       CrafterJob = "armorer"
	CrafterGoldsmith     CrafterJob = "goldsmith"
	CrafterLeatherworker CrafterJob = "leatherworker"
	CrafterWeaver        CrafterJob = "weaver"
	CrafterAlchemist     CrafterJob = "alchemist"
	CrafterCulinarian    CrafterJob = "culinarian"
	CrafterMiner         CrafterJob = "miner"
	CrafterBotanist      CrafterJob = "botanist"
	CrafterFisher        CrafterJob = "fisher"
)

// Crafter is a crafting or gathering job of a character
type Crafter struct {
	ID          string     `json:"id"`
	CharacterID string     `json:"character_id"`
	Job         CrafterJob `json:"job"`
	Level       string     `json:"level,omitempty"`
}

// CrafterRequest creates or updates a crafter
type CrafterRequest struct {
	Job   CrafterJob `json:"job" validate:"required,oneof=carpenter blacksmith armorer goldsmith leatherworker weaver alchemist culinarian miner botanist fisher"`
	Level string     `json:"level" validate:"max=10"`
}

// FighterJob is a disciple of war or magic
type FighterJob string

const (
	FighterPaladin     FighterJob = "paladin"
	FighterWarrior     FighterJob = "warrior"
	FighterDarkKnight  FighterJob = "dark_knight"
	FighterGunbreaker  FighterJob = "gunbreaker"
	FighterWhiteMage   FighterJob = "white_mage"
	FighterScholar     FighterJob = "scholar"
	FighterAstrologian FighterJob = "astrologian"
	FighterSage        FighterJob = "sage"
	FighterMonk        FighterJob = "monk"
	FighterDragoon     FighterJob = "dragoon"
	FighterNinja       FighterJob = "ninja"
	FighterSamurai     FighterJob = "samurai"
	FighterReaper      FighterJob = "reaper"
	FighterViper       FighterJob = "viper"
	FighterBard        FighterJob = "bard"
	FighterMachinist   FighterJob = "machinist"
	FighterDancer      FighterJob = "dancer"
	FighterBlackMage   FighterJob = "black_mage"
	FighterSummoner    FighterJob = "summoner"
	FighterRedMage     FighterJob = "red_mage"
	FighterPictomancer FighterJob = "pictomancer"
	FighterBlueMage    FighterJob = "blue_mage"
)

// Fighter is a combat job of a character
type Fighter struct {
	ID          string     `json:"id"`
	CharacterID string     `json:"character_id"`
	Job         FighterJob `json:"job"`
	Level       string     `json:"level,omitempty"`
	GearScore   string     `json:"gear_score,omitempty"`
}

// FighterRequest creates or updates a fighter
type FighterRequest struct {
	Job       FighterJob `json:"job" validate:"required,oneof=paladin warrior dark_knight gunbreaker white_mage scholar astrologian sage monk dragoon ninja samurai reaper viper bard machinist dancer black_mage summoner red_mage pictomancer blue_mage"`
	Level     string     `json:"level" validate:"max=10"`
	GearScore string     `json:"gear_score" validate:"max=10"`
}

// HousingDistrict is one of the residential districts
type HousingDistrict string

const (
	DistrictTheLavenderBeds HousingDistrict = "the_lavender_beds"
	DistrictMist            HousingDistrict = "mist"
	DistrictTheGoblet       HousingDistrict = "the_goblet"
	DistrictShirogane       HousingDistrict = "shirogane"
	DistrictEmpyreum        HousingDistrict = "empyreum"
)

// HousingType describes who owns the house
type HousingType string

const (
	HousingPrivate         HousingType = "private"
	HousingFreeCompany     HousingType = "free_company"
	HousingSharedApartment HousingType = "shared_apartment"
)

// Housing is a house address of a character. The address (district, ward
// and plot) is unique per character.
type Housing struct {
	ID          string          `json:"id"`
	CharacterID string          `json:"character_id"`
	District    HousingDistrict `json:"district"`
	HousingType HousingType     `json:"housing_type"`
	Ward        int             `json:"ward"`
	Plot        int             `json:"plot"`
}

// HousingRequest creates or updates a housing
type HousingRequest struct {
	District    HousingDistrict `json:"district" validate:"required,oneof=the_lavender_beds mist the_goblet shirogane empyreum"`
	HousingType HousingType     `json:"housing_type" validate:"required,oneof=private free_company shared_apartment"`
	Ward        int             `json:"ward" validate:"min=1,max=30"`
	Plot        int             `json:"plot" validate:"min=1,max=60"`
}
