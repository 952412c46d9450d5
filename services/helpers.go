package services

import (
	"github.com/clubsport/competition-system/models"
	"github.com/clubsport/competition-system/storage"
)

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func populateTeamLogoURL(team *models.CompetitionTeam, uploader storage.FileUploader) {
	if team != nil && team.LogoKey != nil && *team.LogoKey != "" && uploader != nil {
		url := uploader.GetPublicURL(*team.LogoKey)
		if url != "" {
			team.LogoURL = &url
		}
	}
}

func populateCompetitionLogoURL(competition *models.Competition, uploader storage.FileUploader) {
	if competition != nil && competition.LogoKey != nil && *competition.LogoKey != "" && uploader != nil {
		url := uploader.GetPublicURL(*competition.LogoKey)
		if url != "" {
			competition.LogoURL = &url
		}
	}
}
