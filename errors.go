package components

import "errors"

var (
	// ErrAlreadyRegistered is returned when a Component is registered
	// under a name that another Component already holds.
	ErrAlreadyRegistered = errors.New("component already registered")

	// ErrNotRegistered is returned when a Component is looked up by a name
	// that nothing was registered under.
	ErrNotRegistered = errors.New("component not registered")

	// ErrRequiredAfterOptional is returned when a Component declares a
	// required positional prop after an optional one.
	ErrRequiredAfterOptional = errors.New("required positional prop follows optional prop")

	// ErrDuplicateProp is returned when a Component declares the same prop
	// name more than once.
	ErrDuplicateProp = errors.New("prop declared more than once")

	// ErrTooManyArguments is returned when a Component is invoked with
	// more positional arguments than it declares positional props.
	ErrTooManyArguments = errors.New("too many positional arguments")

	// ErrDuplicateArgument is returned when a Component is invoked with a
	// value for the same prop both positionally and by keyword.
	ErrDuplicateArgument = errors.New("multiple values for argument")

	// ErrUnexpectedArgument is returned when a Component is invoked with a
	// keyword argument it doesn't declare and doesn't allow arbitrary
	// keyword arguments.
	ErrUnexpectedArgument = errors.New("unexpected keyword argument")

	// ErrMissingArgument is returned when a Component is invoked without a
	// value for a required prop.
	ErrMissingArgument = errors.New("missing required argument")

	// ErrNoDependencyTracker is returned in debug mode when a Component
	// that declares CSS or JavaScript is rendered without a Dependencies
	// set to record it in. Outside of debug mode, the Component renders
	// and its media is silently left out.
	ErrNoDependencyTracker = errors.New("component has media but no dependency set is available; use Engine.Middleware or WithDependencies")

	// ErrNoTemplate is returned when a Component's Template method
	// returns an empty path.
	ErrNoTemplate = errors.New("component returned an empty template path")

	// ErrNoRenderState is returned when a component tag is executed by a
	// template that wasn't rendered through an Engine.
	ErrNoRenderState = errors.New("component tags must be rendered through an Engine")
)
