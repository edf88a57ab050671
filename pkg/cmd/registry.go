// Package cmd provides common initialization functions for command-line applications.
package cmd

import (
	"log/slog"

	"github.com/dukex/leadflow/pkg/actions/addtag"
	"github.com/dukex/leadflow/pkg/actions/generatedocument"
	"github.com/dukex/leadflow/pkg/actions/invokemodel"
	"github.com/dukex/leadflow/pkg/actions/noop"
	"github.com/dukex/leadflow/pkg/actions/sendchatmessage"
	"github.com/dukex/leadflow/pkg/actions/sendemail"
	"github.com/dukex/leadflow/pkg/registry"
)

func NewRegistry(log *slog.Logger, collaborators *Collaborators) *registry.Registry {
	reg := registry.NewRegistry(log)

	reg.RegisterAction(generatedocument.NewActionFactory(collaborators.Documents, collaborators.Contacts))
	reg.RegisterAction(sendemail.NewActionFactory(collaborators.Sender))
	reg.RegisterAction(sendchatmessage.NewActionFactory(collaborators.Conversations))
	reg.RegisterAction(addtag.NewActionFactory(collaborators.Contacts))
	reg.RegisterAction(invokemodel.NewActionFactory(collaborators.Models, collaborators.Credentials))
	reg.RegisterAction(noop.NewActionFactory())

	return reg
}
