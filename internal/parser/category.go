package parser

import (
	"strings"

	"github.com/MikeSquared-Agency/incidentlog/internal/incident"
)

type keywordRule struct {
	keyword  string
	category string
}

// categoryTable is scanned in order and the first keyword found wins, so
// earlier rows take precedence over later ones regardless of where each
// keyword appears in the transcript.
var categoryTable = []keywordRule{
	{"fighting", incident.CategoryDisruptive},
	{"fight", incident.CategoryDisruptive},
	{"throwing", incident.CategoryDisruptive},
	{"threw", incident.CategoryDisruptive},
	{"yelling", incident.CategoryDisruptive},
	{"screaming", incident.CategoryDisruptive},
	{"disruptive", incident.CategoryDisruptive},
	{"running", incident.CategoryDisruptive},
	{"ran", incident.CategoryDisruptive},
	{"jumping", incident.CategoryDisruptive},
	{"climbing", incident.CategoryDisruptive},
	{"banging", incident.CategoryDisruptive},
	{"slamming", incident.CategoryDisruptive},

	{"off task", incident.CategoryOffTask},
	{"off-task", incident.CategoryOffTask},
	{"not working", incident.CategoryOffTask},
	{"not doing work", incident.CategoryOffTask},
	{"distracted", incident.CategoryOffTask},
	{"daydreaming", incident.CategoryOffTask},
	{"playing", incident.CategoryOffTask},
	{"drawing", incident.CategoryOffTask},
	{"talking", incident.CategoryOffTask},
	{"chatting", incident.CategoryOffTask},

	{"refusing", incident.CategoryDefiance},
	{"refused", incident.CategoryDefiance},
	{"defiant", incident.CategoryDefiance},
	{"won't", incident.CategoryDefiance},
	{"will not", incident.CategoryDefiance},
	{"ignoring", incident.CategoryDefiance},
	{"ignored", incident.CategoryDefiance},
	{"disobeying", incident.CategoryDefiance},
	{"disobeyed", incident.CategoryDefiance},

	{"bullying", incident.CategoryPeerConflict},
	{"bully", incident.CategoryPeerConflict},
	{"conflict", incident.CategoryPeerConflict},
	{"argument", incident.CategoryPeerConflict},
	{"arguing", incident.CategoryPeerConflict},
	{"teasing", incident.CategoryPeerConflict},
	{"teased", incident.CategoryPeerConflict},
	{"pushing", incident.CategoryPeerConflict},
	{"pushed", incident.CategoryPeerConflict},
	{"hitting", incident.CategoryPeerConflict},
	{"hit", incident.CategoryPeerConflict},

	{"disrespectful", incident.CategoryDisrespectful},
	{"rude", incident.CategoryDisrespectful},
	{"swearing", incident.CategoryDisrespectful},
	{"cursing", incident.CategoryDisrespectful},
	{"inappropriate language", incident.CategoryDisrespectful},
	{"bad words", incident.CategoryDisrespectful},

	{"participated", incident.CategoryParticipation},
	{"participating", incident.CategoryParticipation},
	{"helped", incident.CategoryHelpingPeers},
	{"helping", incident.CategoryHelpingPeers},
	{"assisted", incident.CategoryHelpingPeers},
	{"leadership", incident.CategoryLeadership},
	{"led", incident.CategoryLeadership},
	{"on task", incident.CategoryOnTask},
	{"working", incident.CategoryOnTask},
	{"focused", incident.CategoryOnTask},
	{"concentrating", incident.CategoryOnTask},
}

// Classify returns the category of the first table keyword contained in
// lower, which must already be lowercased. It returns CategoryNote when
// no keyword matches. Keywords are plain substrings: "ran" matches inside
// "grandma" and "hit" inside "white".
func Classify(lower string) string {
	for _, rule := range categoryTable {
		if strings.Contains(lower, rule.keyword) {
			return rule.category
		}
	}
	return incident.CategoryNote
}
