package payment

import (
	"encoding/base64"
	"fmt"

	"github.com/shopspring/decimal"
	qrcode "github.com/skip2/go-qrcode"
)

// tokenDecimals is the minor-unit scale of the settlement token (USDC).
const tokenDecimals = 6

// Intent is the parameter set handed to the payment widget: pay Amount of
// TokenAddress on ChainID to ToAddress.
type Intent struct {
	ToAddress    string          `json:"toAddress"`
	Amount       decimal.Decimal `json:"amount"`
	TokenAddress string          `json:"tokenAddress"`
	ChainID      int64           `json:"chainId"`
}

// Matches reports whether two intents settle the same amount to the same
// destination. A mismatch forces a bridge reset before the next attempt.
func (i Intent) Matches(other Intent) bool {
	return i.ToAddress == other.ToAddress &&
		i.Amount.Equal(other.Amount) &&
		i.TokenAddress == other.TokenAddress &&
		i.ChainID == other.ChainID
}

// TransferURI renders the intent as an EIP-681 token transfer URI, with the
// amount in token minor units.
func (i Intent) TransferURI() string {
	units := i.Amount.Shift(tokenDecimals).Round(0)
	return fmt.Sprintf("ethereum:%s@%d/transfer?address=%s&uint256=%s",
		i.TokenAddress, i.ChainID, i.ToAddress, units.String())
}

// QRCodePNG encodes the transfer URI as a PNG QR code, base64 encoded for
// embedding in a JSON response.
func (i Intent) QRCodePNG() (string, error) {
	png, err := qrcode.Encode(i.TransferURI(), qrcode.Medium, 256)
	if err != nil {
		return "", fmt.Errorf("encode payment qr: %w", err)
	}
	return base64.StdEncoding.EncodeToString(png), nil
}
