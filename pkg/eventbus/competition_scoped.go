package eventbus

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// PublishWithCompetitionScope publishes on {baseTopic}.{competitionID} so
// consumers can follow one competition or all of them with "{baseTopic}.*".
func PublishWithCompetitionScope(bus message.Publisher, baseTopic string, competitionID uuid.UUID, msg *message.Message) error {
	if competitionID == uuid.Nil {
		return fmt.Errorf("competitionID cannot be nil for competition-scoped publish")
	}
	return bus.Publish(FormatCompetitionScopedTopic(baseTopic, competitionID), msg)
}

// FormatCompetitionScopedTopic formats a topic with the competition suffix without publishing.
func FormatCompetitionScopedTopic(baseTopic string, competitionID uuid.UUID) string {
	return fmt.Sprintf("%s.%s", baseTopic, competitionID)
}
