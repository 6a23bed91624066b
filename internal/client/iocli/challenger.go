package iocli

import (
	"context"
	"fmt"

	"github.com/iudanet/cardsync/internal/validation"
	pkgapi "github.com/iudanet/cardsync/pkg/api"
)

// Challenger спрашивает второй фактор в терминале
type Challenger struct {
	io IO
}

// NewChallenger создает Challenger поверх терминала
func NewChallenger(io IO) *Challenger {
	return &Challenger{io: io}
}

// SecurityCode код с доверенного устройства
func (c *Challenger) SecurityCode(ctx context.Context) (string, error) {
	return c.readCode("Enter the code you received on one of your approved devices: ")
}

// ChooseDevice показывает устройства и спрашивает номер
func (c *Challenger) ChooseDevice(ctx context.Context, devices []pkgapi.TrustedDevice) (int, error) {
	if len(devices) == 0 {
		return 0, fmt.Errorf("no trusted devices available")
	}

	c.io.Println("Your trusted devices are:")
	for i, d := range devices {
		c.io.Printf("  %d: %s\n", i, d.DisplayName())
	}
	for {
		answer, err := c.io.ReadInput("Which device would you like to use? ")
		if err != nil {
			return 0, err
		}
		idx, err := validation.ParseDeviceIndex(answer, len(devices))
		if err == nil {
			return idx, nil
		}
		c.io.Println(err)
	}
}

// VerificationCode код, отправленный на выбранное устройство
func (c *Challenger) VerificationCode(ctx context.Context) (string, error) {
	return c.readCode("Please enter validation code: ")
}

// readCode спрашивает код, пока он не будет похож на шесть цифр
func (c *Challenger) readCode(prompt string) (string, error) {
	for {
		answer, err := c.io.ReadInput(prompt)
		if err != nil {
			return "", err
		}
		code, err := validation.NormalizeVerificationCode(answer)
		if err == nil {
			return code, nil
		}
		c.io.Println(err)
	}
}
