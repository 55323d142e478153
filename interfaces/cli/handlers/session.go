package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"diskowner/application"
	"diskowner/domain/contracts"
	"diskowner/domain/disk"
	"diskowner/interfaces/cli/presenters"
	"diskowner/interfaces/cli/prompt"
	"diskowner/logging"
)

// State is a step of the interactive session.
type State int

const (
	StateNoConfig State = iota
	StateReviewExisting
	StateAwaitingCredentialInput
	StateValidatingCredential
	StateConfigSaved
	StateMainLoop
	StateDone
)

func (s State) String() string {
	switch s {
	case StateNoConfig:
		return "no_config"
	case StateReviewExisting:
		return "review_existing"
	case StateAwaitingCredentialInput:
		return "awaiting_credential_input"
	case StateValidatingCredential:
		return "validating_credential"
	case StateConfigSaved:
		return "config_saved"
	case StateMainLoop:
		return "main_loop"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var quitKeywords = []string{"q", "quit", "exit"}

// Session drives credential setup and the link lookup loop for one operator.
type Session struct {
	console     *presenters.Console
	prompter    *prompt.Prompter
	credentials *application.CredentialService
	store       contracts.CredentialStore
	logger      *logging.Logger

	state            State
	saved            *application.SavedCredential
	pendingToken     string
	lookup           *application.LookupService
	instructionsSeen bool
}

// NewSession creates a session in StateNoConfig.
func NewSession(
	console *presenters.Console,
	prompter *prompt.Prompter,
	credentials *application.CredentialService,
	store contracts.CredentialStore,
) *Session {
	return &Session{
		console:     console,
		prompter:    prompter,
		credentials: credentials,
		store:       store,
		logger:      logging.Default().WithComponent("session"),
		state:       StateNoConfig,
	}
}

// State returns the current state.
func (s *Session) State() State {
	return s.state
}

// Run walks the state machine until StateDone. Closed input or a cancelled ctx
// ends the session cleanly; only unexpected read failures are returned.
func (s *Session) Run(ctx context.Context) error {
	s.console.Welcome()

	for s.state != StateDone {
		if err := ctx.Err(); err != nil {
			return s.interrupt()
		}

		next, err := s.step(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return s.interrupt()
			}
			return err
		}
		s.transition(next)
	}

	s.console.Goodbye()
	return nil
}

func (s *Session) interrupt() error {
	s.logger.Info("Session interrupted", "state", s.state)
	s.transition(StateDone)
	s.console.Interrupted()
	s.console.Goodbye()
	return nil
}

func (s *Session) transition(next State) {
	if next != s.state {
		s.logger.Debug("Session state changed", "from", s.state, "to", next)
	}
	s.state = next
}

func (s *Session) step(ctx context.Context) (State, error) {
	switch s.state {
	case StateNoConfig:
		return s.loadSaved(), nil
	case StateReviewExisting:
		return s.reviewExisting(ctx)
	case StateAwaitingCredentialInput:
		return s.awaitCredential(ctx)
	case StateValidatingCredential:
		return s.validateCredential(ctx)
	case StateConfigSaved:
		return StateMainLoop, nil
	case StateMainLoop:
		return s.mainLoop(ctx)
	default:
		return StateDone, nil
	}
}

func (s *Session) loadSaved() State {
	saved, err := s.credentials.Saved()
	if err != nil {
		s.logger.Warn("Saved settings unreadable", "path", s.credentials.ConfigPath(), "error", err)
		s.console.Warning("Saved settings could not be read, starting a new setup")
		return StateAwaitingCredentialInput
	}
	if saved == nil {
		return StateAwaitingCredentialInput
	}
	s.saved = saved
	return StateReviewExisting
}

func (s *Session) reviewExisting(ctx context.Context) (State, error) {
	s.console.ConfigInfo(s.saved.Masked, s.saved.OrgID)
	s.console.ConfigMenu()

	choice, err := s.prompter.AskChoice(ctx, "Your choice",
		[]string{presenters.MenuReuse, presenters.MenuReplace, presenters.MenuExit},
		presenters.MenuReuse)
	if err != nil {
		return s.state, err
	}

	switch choice {
	case presenters.MenuReuse:
		s.startLookups(s.credentials.Open(s.saved))
		return StateMainLoop, nil
	case presenters.MenuReplace:
		return StateAwaitingCredentialInput, nil
	default:
		return StateDone, nil
	}
}

func (s *Session) awaitCredential(ctx context.Context) (State, error) {
	s.console.TokenRequest()
	token, err := s.prompter.AskSecret(ctx, "Token")
	if err != nil {
		return s.state, err
	}
	if strings.TrimSpace(token) == "" {
		s.console.Error(contracts.ErrEmptyToken.Error())
		return StateAwaitingCredentialInput, nil
	}
	s.pendingToken = token
	return StateValidatingCredential, nil
}

func (s *Session) validateCredential(ctx context.Context) (State, error) {
	token := s.pendingToken
	s.pendingToken = ""

	check, err := s.credentials.Validate(ctx, token)
	if err != nil {
		var apiErr *disk.APIError
		switch {
		case errors.As(err, &apiErr):
			s.console.Error("token validation failed: " + apiErr.Message)
			s.console.Warning("Try entering the token again")
			return StateAwaitingCredentialInput, nil
		case errors.Is(err, contracts.ErrEmptyToken):
			s.console.Error(contracts.ErrEmptyToken.Error())
			return StateAwaitingCredentialInput, nil
		default:
			return s.abortSetup(err), nil
		}
	}

	s.console.TokenValidation(check.Identity)
	s.console.ScopeValidation(check.Scopes)
	if !check.Scopes.Valid {
		s.console.Warning("The token does not carry the required access rights")
		return StateAwaitingCredentialInput, nil
	}

	s.console.OrgRequest(check.Identity.OrgIDs)
	raw, err := s.prompter.Ask(ctx, "Organization ID", check.DefaultOrgID())
	if err != nil {
		return s.state, err
	}

	orgID, err := application.ParseOrgID(raw)
	switch {
	case errors.Is(err, contracts.ErrEmptyOrgID):
		s.console.Error(contracts.ErrEmptyOrgID.Error())
		return StateAwaitingCredentialInput, nil
	case errors.Is(err, contracts.ErrOrgIDNotNumeric):
		s.console.Error(contracts.ErrOrgIDNotNumeric.Error())
		return StateAwaitingCredentialInput, nil
	case err != nil:
		return s.abortSetup(err), nil
	}

	if check.NeedsOrgConfirmation(orgID) {
		s.console.Warning(fmt.Sprintf("Organization ID %d is not in the list of available organizations", orgID))
		confirmed, err := s.prompter.Confirm(ctx, "Save anyway?", false)
		if err != nil {
			return s.state, err
		}
		if !confirmed {
			return StateAwaitingCredentialInput, nil
		}
	}

	gateway, err := s.credentials.Persist(token, orgID)
	if err != nil {
		return s.abortSetup(err), nil
	}
	s.console.ConfigSaved(s.credentials.ConfigPath())
	s.startLookups(gateway)
	return StateConfigSaved, nil
}

func (s *Session) abortSetup(err error) State {
	s.logger.Error("Setup aborted", "error", err)
	s.console.Error(fmt.Sprintf("unexpected error: %v", err))
	return StateDone
}

func (s *Session) startLookups(gateway contracts.DirectoryGateway) {
	s.lookup = application.NewLookupService(gateway, s.store)
}

func (s *Session) mainLoop(ctx context.Context) (State, error) {
	if !s.instructionsSeen {
		s.console.Instructions()
		s.instructionsSeen = true
	}

	link, err := s.prompter.Ask(ctx, "URL", "")
	if err != nil {
		return s.state, err
	}
	if isQuit(link) {
		return StateDone, nil
	}
	if link == "" {
		s.console.Error("link must not be empty")
		return StateMainLoop, nil
	}

	s.processLink(ctx, link)

	more, err := s.prompter.Confirm(ctx, "Continue?", true)
	if err != nil {
		return s.state, err
	}
	if !more {
		return StateDone, nil
	}
	return StateMainLoop, nil
}

// processLink runs one lookup. A failure of any kind is reported and never
// ends the session.
func (s *Session) processLink(ctx context.Context, link string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Lookup panicked", "link", link, "panic", r)
			s.console.Error(fmt.Sprintf("unexpected error: %v", r))
		}
	}()

	result := s.lookup.Lookup(ctx, link, s.console)
	s.console.LookupResult(result)
}

func isQuit(input string) bool {
	input = strings.ToLower(strings.TrimSpace(input))
	for _, keyword := range quitKeywords {
		if input == keyword {
			return true
		}
	}
	return false
}
