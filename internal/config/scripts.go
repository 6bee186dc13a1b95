package config

// Scripts groups the knobs of each bundled deployment routine.
type Scripts struct {
	Token    TokenScript    `yaml:"token"`
	Exchange ExchangeScript `yaml:"dex"`
	Vendor   VendorScript   `yaml:"vendor"`
}

// TokenScript configures the standalone token deployment.
type TokenScript struct {
	Contract string `yaml:"contract"`
}

// ExchangeScript configures the token + DEX bootstrap. Amounts are decimal strings in token units.
type ExchangeScript struct {
	Token        string `yaml:"token"`
	Exchange     string `yaml:"exchange"`
	Recipient    string `yaml:"recipient"`
	Gift         string `yaml:"gift"`
	Allowance    string `yaml:"allowance"`
	PoolTokens   string `yaml:"pool_tokens"`
	PoolETH      string `yaml:"pool_eth"`
	InitGasLimit uint64 `yaml:"init_gas_limit"`
}

// VendorScript configures the vendor bootstrap.
type VendorScript struct {
	Token     string `yaml:"token"`
	Vendor    string `yaml:"vendor"`
	Inventory string `yaml:"inventory"`
	Owner     string `yaml:"owner"`
}

func (s *Scripts) applyDefaults() {
	setDefault(&s.Token.Contract, "YourToken")

	ex := &s.Exchange
	setDefault(&ex.Token, "Balloons")
	setDefault(&ex.Exchange, "DEX")
	setDefault(&ex.Gift, "100")
	setDefault(&ex.Allowance, "100")
	setDefault(&ex.PoolTokens, "1")
	setDefault(&ex.PoolETH, ex.PoolTokens)
	if ex.InitGasLimit == 0 {
		ex.InitGasLimit = 200000
	}

	v := &s.Vendor
	setDefault(&v.Token, s.Token.Contract)
	setDefault(&v.Vendor, "Vendor")
	setDefault(&v.Inventory, "1000")
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}
