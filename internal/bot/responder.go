package bot

import "github.com/bwmarrin/discordgo"

// Responder sends the single response an interaction allows, whether that is
// a command reply or a list of autocomplete choices.
type Responder interface {
	// Respond sends a response to an interaction.
	Respond(response *discordgo.InteractionResponse) error
}

// DiscordResponder implements Responder using a live Discord session.
type DiscordResponder struct {
	session     *discordgo.Session
	interaction *discordgo.Interaction
}

// NewDiscordResponder creates a new DiscordResponder.
func NewDiscordResponder(s *discordgo.Session, i *discordgo.Interaction) *DiscordResponder {
	return &DiscordResponder{
		session:     s,
		interaction: i,
	}
}

// Respond sends a response to the interaction via Discord API.
func (r *DiscordResponder) Respond(response *discordgo.InteractionResponse) error {
	return r.session.InteractionRespond(r.interaction, response)
}

// MockResponder is a test double for Responder.
// It records every response it receives; LastResponse is the most recent one.
type MockResponder struct {
	LastResponse *discordgo.InteractionResponse
	Responses    []*discordgo.InteractionResponse
	Err          error
}

// Respond records the response for testing.
func (m *MockResponder) Respond(response *discordgo.InteractionResponse) error {
	m.LastResponse = response
	m.Responses = append(m.Responses, response)
	return m.Err
}

// Choices returns the autocomplete choices of the most recent response.
func (m *MockResponder) Choices() []*discordgo.ApplicationCommandOptionChoice {
	if m.LastResponse == nil || m.LastResponse.Data == nil {
		return nil
	}
	return m.LastResponse.Data.Choices
}
