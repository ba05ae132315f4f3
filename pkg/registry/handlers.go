package registry

import (
	"database/sql"

	"github.com/automaton-hq/automaton/pkg/handlers/ai"
	"github.com/automaton-hq/automaton/pkg/handlers/approval"
	"github.com/automaton-hq/automaton/pkg/handlers/condition"
	"github.com/automaton-hq/automaton/pkg/handlers/database"
	"github.com/automaton-hq/automaton/pkg/handlers/delay"
	"github.com/automaton-hq/automaton/pkg/handlers/email"
	"github.com/automaton-hq/automaton/pkg/handlers/identity"
	"github.com/automaton-hq/automaton/pkg/handlers/integration"
	"github.com/automaton-hq/automaton/pkg/handlers/notification"
	"github.com/automaton-hq/automaton/pkg/handlers/report"
	"github.com/automaton-hq/automaton/pkg/handlers/transform"
	"github.com/automaton-hq/automaton/pkg/handlers/webhook"
	"github.com/automaton-hq/automaton/pkg/protocol"
)

// Dependencies carries the external collaborators handler factories need.
type Dependencies struct {
	AIClient protocol.AIClient
	DB       *sql.DB
}

// RegisterDefaultHandlers registers every built-in node handler factory.
func (r *Registry) RegisterDefaultHandlers(deps Dependencies) {
	r.RegisterHandler(identity.NewStartFactory())
	r.RegisterHandler(identity.NewEndFactory())
	r.RegisterHandler(email.NewFactory())
	r.RegisterHandler(approval.NewFactory())
	r.RegisterHandler(condition.NewFactory())
	r.RegisterHandler(delay.NewFactory())
	r.RegisterHandler(webhook.NewFactory())
	r.RegisterHandler(database.NewFactory(deps.DB))
	r.RegisterHandler(ai.NewFactory(deps.AIClient))
	r.RegisterHandler(integration.NewFactory())
	r.RegisterHandler(notification.NewFactory())
	r.RegisterHandler(report.NewFactory())
	r.RegisterHandler(transform.NewFactory())
}
