package model

// Channel is a tracked video channel. ID is the handle, Name the display name
// used to match Video.ChannelName.
type Channel struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// DefaultChannels is the known channel roster.
var DefaultChannels = []Channel{
	{ID: "@CoinBureau", Name: "Coin Bureau"},
	{ID: "@MeetKevin", Name: "Meet Kevin"},
	{ID: "@Brian Jung", Name: "Brian Jung"},
	{ID: "@AltcoinDaily", Name: "Altcoin Daily"},
	{ID: "@CryptosRUs", Name: "CryptosRUs"},
	{ID: "@elliotrades_official", Name: "EllioTrades"},
	{ID: "@DataDash", Name: "DataDash"},
	{ID: "@IvanOnTech", Name: "Ivan on Tech"},
	{ID: "@TheCryptoLark", Name: "Lark Davis"},
	{ID: "@CryptoCasey", Name: "Crypto Casey"},
	{ID: "@AnthonyPompliano", Name: "Anthony Pompliano"},
	{ID: "@alessiorastani", Name: "Alessio Rastani"},
	{ID: "@CryptoCapitalVenture", Name: "Crypto Capital Venture"},
	{ID: "@aantonop", Name: "aantonop"},
	{ID: "@Boxmining", Name: "Boxmining"},
	{ID: "@CryptoZombie", Name: "Crypto Zombie"},
	{ID: "@tonevays", Name: "Tone Vays"},
	{ID: "@ScottMelker", Name: "Scott Melker"},
	{ID: "@CTOLARSSON", Name: "CTO LARSSON"},
	{ID: "@Bankless", Name: "Bankless"},
	{ID: "@gemgemcrypto", Name: "GemGemCrypto"},
}

// Coin is a selectable coin for the impact history chart.
type Coin struct {
	Symbol string `json:"symbol" yaml:"symbol"`
	Name   string `json:"name" yaml:"name"`
}

// DefaultCoins are the coins offered by the history selector.
var DefaultCoins = []Coin{
	{Symbol: "BTC", Name: "Bitcoin"},
	{Symbol: "ETH", Name: "Ethereum"},
	{Symbol: "SOL", Name: "Solana"},
}
