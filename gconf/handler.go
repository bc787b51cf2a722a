package gconf

import (
	"reflect"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/x"
)

// OwnedConfig is a configuration with an owner. Only the owner may update it.
type OwnedConfig interface {
	Configuration
	GetOwner() ledger.Address
}

// UpdateConfigurationHandler applies a configuration patch. The message must
// be a pointer to a struct with a Patch field holding a configuration of the
// same type as the stored one. Zero value fields of the patch are left
// untouched.
type UpdateConfigurationHandler struct {
	pkg    string
	config func() OwnedConfig
	auth   x.Authenticator
}

var _ ledger.Handler = UpdateConfigurationHandler{}

// NewUpdateConfigurationHandler returns a handler updating the configuration
// of pkg. newConfig must return a new, empty configuration instance. Updates
// must be signed by the owner declared in the currently stored
// configuration, so a configuration can be updated only if it was created at
// genesis.
func NewUpdateConfigurationHandler(pkg string, newConfig func() OwnedConfig, auth x.Authenticator) UpdateConfigurationHandler {
	return UpdateConfigurationHandler{
		pkg:    pkg,
		config: newConfig,
		auth:   auth,
	}
}

func (h UpdateConfigurationHandler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	if _, err := h.apply(ctx, db, tx); err != nil {
		return nil, err
	}
	return &ledger.CheckResult{}, nil
}

func (h UpdateConfigurationHandler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	conf, err := h.apply(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	ledger.GetLogger(ctx).Info("configuration updated", "package", h.pkg, "owner", conf.GetOwner())
	return &ledger.DeliverResult{}, nil
}

func (h UpdateConfigurationHandler) apply(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (OwnedConfig, error) {
	conf := h.config()
	if err := Load(db, h.pkg, conf); err != nil {
		if errors.ErrNotFound.Is(err) {
			return nil, errors.Wrap(errors.ErrState, "configuration does not exist")
		}
		return nil, errors.Wrap(err, "load current configuration")
	}
	owner := conf.GetOwner()
	if owner == nil || !h.auth.HasAddress(ctx, owner) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "configuration owner signature required")
	}

	payload, err := patchPayload(tx)
	if err != nil {
		return nil, err
	}
	if err := patch(conf, payload); err != nil {
		return nil, err
	}
	if err := Save(db, h.pkg, conf); err != nil {
		return nil, errors.Wrap(err, "save updated configuration")
	}
	return conf, nil
}

// patch copies every non zero field of payload into config.
func patch(config, payload OwnedConfig) error {
	if reflect.TypeOf(config) != reflect.TypeOf(payload) {
		return errors.Wrapf(errors.ErrType, "cannot patch %T with %T", config, payload)
	}
	dst := reflect.ValueOf(config).Elem()
	src := reflect.ValueOf(payload).Elem()
	for i := 0; i < dst.NumField(); i++ {
		if f := src.Field(i); !isZero(f) {
			dst.Field(i).Set(f)
		}
	}
	return nil
}

func isZero(val reflect.Value) bool {
	zero := reflect.Zero(val.Type()).Interface()
	return reflect.DeepEqual(val.Interface(), zero)
}

// patchPayload returns the content of the message Patch field.
func patchPayload(tx ledger.Tx) (OwnedConfig, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot get transaction message")
	}
	if err := msg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid message")
	}

	val := reflect.ValueOf(msg)
	if val.Kind() != reflect.Ptr || val.Elem().Kind() != reflect.Struct {
		return nil, errors.Wrapf(errors.ErrMsg, "invalid message container: %T", msg)
	}
	field := val.Elem().FieldByName("Patch")
	if !field.IsValid() || field.Kind() != reflect.Ptr {
		return nil, errors.Wrapf(errors.ErrMsg, "%T has no Patch field", msg)
	}
	if field.IsNil() {
		return nil, errors.Field("Patch", errors.ErrEmpty, "required")
	}
	payload, ok := field.Interface().(OwnedConfig)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "Patch field of %T is not a configuration", msg)
	}
	return payload, nil
}
