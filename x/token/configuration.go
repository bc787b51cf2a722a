package token

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/coin"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/gconf"
)

// ConfigPackage is the gconf package name of the token configuration.
const ConfigPackage = "token"

// Configuration of the token extension.
type Configuration struct {
	Metadata *ledger.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	// Owner is allowed to update the configuration.
	Owner ledger.Address `protobuf:"bytes,2,opt,name=owner,proto3,casttype=github.com/iov-one/ledger.Address" json:"owner,omitempty"`
	// AccountReserve is charged to the payer when an account is opened and
	// refunded when it is closed. Nil means no reserve.
	AccountReserve *coin.Coin `protobuf:"bytes,3,opt,name=account_reserve,json=accountReserve,proto3" json:"account_reserve,omitempty"`
}

var _ gconf.OwnedConfig = (*Configuration)(nil)

func (c *Configuration) GetOwner() ledger.Address {
	return c.Owner
}

func (c *Configuration) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", c.Metadata.Validate())
	errs = errors.AppendField(errs, "Owner", c.Owner.Validate())
	errs = errors.AppendField(errs, "AccountReserve", validateReserve(c.AccountReserve))
	return errs
}

func validateReserve(c *coin.Coin) error {
	if coin.IsEmpty(c) {
		return nil
	}
	if err := c.Validate(); err != nil {
		return err
	}
	if !c.IsNonNegative() {
		return errors.Wrap(errors.ErrAmount, "negative reserve")
	}
	return nil
}

type configurationPB Configuration

func (m *configurationPB) Reset()         { *m = configurationPB{} }
func (m *configurationPB) String() string { return proto.CompactTextString(m) }
func (*configurationPB) ProtoMessage()    {}

func (c *Configuration) Marshal() ([]byte, error) {
	return proto.Marshal((*configurationPB)(c))
}

func (c *Configuration) Unmarshal(data []byte) error {
	return proto.Unmarshal(data, (*configurationPB)(c))
}

func loadConfiguration(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, ConfigPackage, &conf); err != nil {
		return nil, err
	}
	return &conf, nil
}
