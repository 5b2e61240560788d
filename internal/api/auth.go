package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/dchest/uniuri"
	"github.com/gin-gonic/gin"
	"github.com/spruceid/siwe-go"
	"gorm.io/gorm"

	"agritrade/internal/agritradeapi"
	"agritrade/internal/api/jwt"
	"agritrade/internal/evm"
)

var ctx = context.Background()

// LoginMessage is the fixed prefix wallets sign; the per-address nonce is
// appended so a captured signature cannot be replayed.
const LoginMessage = "Login to AgriTrade"

type loginParams struct {
	WalletAddress string `json:"walletAddress" binding:"required"`
	Signature     string `json:"signature" binding:"required"`
}

type registerParams struct {
	WalletAddress  string `json:"walletAddress" binding:"required"`
	Signature      string `json:"signature" binding:"required"`
	SponsorAddress string `json:"sponsorAddress"` // wallet address or ref code of the referrer
}

// Nonce instead of storing the nonce in db for an inexistant user we just put it in some redis that expires
func Nonce(c *gin.Context) {
	app := c.MustGet("app").(*agritradeapi.App)
	address := c.Param("address")

	if !evm.IsValidAddress(address) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid address format"})
		return
	}

	nonce := siwe.GenerateNonce()

	err := app.Rdb.Set(ctx, address, nonce, 1*time.Minute).Err()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"nonce": nonce,
	})
}

func verifyLogin(app *agritradeapi.App, walletAddress string, signature string) error {
	nonce, err := app.Rdb.Get(ctx, walletAddress).Result()
	if err != nil {
		return fmt.Errorf("nonce expired, request a new one")
	}
	msg := fmt.Sprintf("%s\nNonce: %s", LoginMessage, nonce)
	if err := evm.VerifySignature(msg, signature, walletAddress); err != nil {
		return err
	}
	// One signature per nonce.
	app.Rdb.Del(ctx, walletAddress)
	return nil
}

// Login verifies the wallet signature and issues a JWT for an existing user.
func Login(c *gin.Context) {
	app := c.MustGet("app").(*agritradeapi.App)
	var loginP loginParams
	if err := c.ShouldBindJSON(&loginP); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !evm.IsValidAddress(loginP.WalletAddress) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid address format"})
		return
	}
	if err := verifyLogin(app, loginP.WalletAddress, loginP.Signature); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var user agritradeapi.User
	res := app.Db.Where(
		"wallet_address <> '' AND wallet_address = ?",
		loginP.WalletAddress,
	).First(&user)
	if res.RowsAffected != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	token, err := jwt.GenerateJWT(user.WalletAddress, user.Id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user": user,
		"jwt":  token,
	})
}

// Register creates a wallet account, wiring it under its sponsor and handing
// the sponsor a direct-referral credit.
func Register(c *gin.Context) {
	app := c.MustGet("app").(*agritradeapi.App)
	var registerP registerParams
	if err := c.ShouldBindJSON(&registerP); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !evm.IsValidAddress(registerP.WalletAddress) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid address format"})
		return
	}
	if err := verifyLogin(app, registerP.WalletAddress, registerP.Signature); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	var double agritradeapi.User
	res := app.Db.Where(
		"wallet_address = ?",
		registerP.WalletAddress,
	).First(&double)
	if res.RowsAffected == 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user already exists"})
		return
	}

	sponsorAddress := agritradeapi.ZeroAddress
	var sponsor agritradeapi.User
	if registerP.SponsorAddress != "" {
		res = app.Db.Where(
			"wallet_address = ? OR ref_code = ?",
			registerP.SponsorAddress,
			registerP.SponsorAddress,
		).First(&sponsor)
		if res.RowsAffected == 1 {
			sponsorAddress = sponsor.WalletAddress
		}
	}

	refCode := ""
	for {
		refCode = uniuri.NewLenChars(8, []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"))
		var codeDouble agritradeapi.User
		res = app.Db.Where("ref_code = ?", refCode).First(&codeDouble)
		if res.RowsAffected == 1 {
			continue
		}
		break
	}

	user := agritradeapi.User{
		WalletAddress:  registerP.WalletAddress,
		SponsorAddress: sponsorAddress,
		RefCode:        refCode,
		Balance:        0,
		PackageLevel:   0,
	}
	res = app.Db.Create(&user)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if sponsorAddress != agritradeapi.ZeroAddress {
		app.Db.Model(&agritradeapi.User{}).
			Where("id = ?", sponsor.Id).
			Update("direct_referrals", gorm.Expr("direct_referrals + 1"))
	}

	cpUrl := os.Getenv("CP_URL")
	msg := fmt.Sprintf(
		`New Signup [User: %d](%s/users/%d)
[%s](https://polygonscan.com/address/%s)`,
		user.Id,
		cpUrl,
		user.Id,
		user.WalletAddress,
		user.WalletAddress,
	)
	if sponsorAddress != agritradeapi.ZeroAddress {
		msg = fmt.Sprintf(
			`%s
Invited by [User: %d](%s/users/%d)`,
			msg,
			sponsor.Id,
			cpUrl,
			sponsor.Id,
		)
	}
	agritradeapi.QueueTelegramMessage(msg, "signup")

	token, err := jwt.GenerateJWT(user.WalletAddress, user.Id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"user": user,
		"jwt":  token,
	})
}
