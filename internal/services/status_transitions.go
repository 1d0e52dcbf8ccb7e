package services

import "crmhub/internal/models"

// LeadTransitions lists the allowed status moves. Converted is only reached through Convert.
var LeadTransitions = map[models.LeadStatus]map[models.LeadStatus]bool{
	models.LeadStatusNew: {
		models.LeadStatusContacted:   true,
		models.LeadStatusQualified:   true,
		models.LeadStatusUnqualified: true,
		models.LeadStatusLost:        true,
	},
	models.LeadStatusContacted: {
		models.LeadStatusQualified:   true,
		models.LeadStatusUnqualified: true,
		models.LeadStatusLost:        true,
	},
	models.LeadStatusQualified: {
		models.LeadStatusConverted: true,
		models.LeadStatusLost:      true,
	},
	models.LeadStatusUnqualified: {models.LeadStatusContacted: true},
	models.LeadStatusLost:        {models.LeadStatusContacted: true},
	models.LeadStatusConverted:   {}, // финальный
}

func canTransition(current, to models.LeadStatus) bool {
	if current == "" {
		// пустой статус в БД: разрешаем любой стартовый
		return true
	}
	nexts, ok := LeadTransitions[current]
	if !ok {
		return false
	}
	return nexts[to]
}
