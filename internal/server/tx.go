package server

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"agritrade/internal/agritradeapi"
	"agritrade/internal/evm"
	"agritrade/internal/trading"
)

var transferEventSignature = crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))

func getCurrentBlockNumber(client *ethclient.Client) (uint64, error) {
	header, err := client.HeaderByNumber(context.Background(), nil)
	if err != nil {
		return 0, err
	}
	return header.Number.Uint64(), nil
}

// TrackDeposits watches USDT Transfer logs into the configured deposit wallet
// and credits the sending user's platform balance.
func TrackDeposits(appTracker *agritradeapi.AppTracker) {
	web3Conn, err := ethclient.Dial(os.Getenv("RPC_URL"))
	if err != nil {
		Logger.Error("RPC dial error: " + err.Error())
		return
	}
	fromBlock, err := getCurrentBlockNumber(web3Conn)
	if err != nil {
		fmt.Println("Block number error")
		fmt.Println(err.Error())
		return
	}
	fromBlock -= 20
	tokenAddr := common.HexToAddress(os.Getenv("USDT_CONTRACT_ADDRESS"))
	for {
		config, err := agritradeapi.LoadSystemConfig(appTracker.Db)
		if err != nil {
			time.Sleep(30 * time.Second)
			continue
		}
		query := ethereum.FilterQuery{
			Addresses: []common.Address{tokenAddr},
			FromBlock: new(big.Int).SetUint64(fromBlock),
			Topics: [][]common.Hash{
				{transferEventSignature},
				nil,
				{topicAddress(config.DepositWallet)},
			},
		}
		logs, err := web3Conn.FilterLogs(context.Background(), query)
		if err != nil {
			fmt.Println("Logs reading error")
			fmt.Println(err.Error())
			time.Sleep(30 * time.Second)
			continue
		}
		for _, vLog := range logs {
			if len(vLog.Topics) != 3 {
				continue
			}
			sender := common.HexToAddress(vLog.Topics[1].Hex())
			amount := new(big.Int).SetBytes(vLog.Data)
			res := handleDepositEvent(appTracker, vLog, sender, amount)
			if res {
				fromBlock = vLog.BlockNumber
			}
		}
		time.Sleep(5 * time.Second)
	}
}

func handleDepositEvent(appTracker *agritradeapi.AppTracker, log types.Log, sender common.Address, amount *big.Int) (result bool) {
	result = true
	var txDouble agritradeapi.Transaction
	res := appTracker.Db.Where(
		"tx_hash = ?",
		log.TxHash.Hex(),
	).First(&txDouble)
	if res.RowsAffected > 0 {
		return true
	}
	// USDT carries 6 decimals on chain
	amountFloat := new(big.Float).SetInt(amount)
	amountRate := new(big.Float).SetFloat64(0.000001)
	amountDB := amountFloat.Mul(amountFloat, amountRate)
	amountTx, _ := amountDB.Float64()
	fmt.Println("Amount from chain:", amount, "Amount to DB:", amountTx)
	if amountTx <= 0 {
		return false
	}
	var user agritradeapi.User
	res = appTracker.Db.Where(
		"wallet_address <> '' AND wallet_address = ?",
		sender.Hex(),
	).First(&user)
	if res.RowsAffected != 1 {
		// Transfer from a wallet we do not know; leave it for manual credit.
		return true
	}
	credited, err := trading.Deposit(
		appTracker.Db,
		user.WalletAddress,
		agritradeapi.RoundFloat(amountTx, 2),
		log.TxHash.Hex(),
		"External USDT Deposit",
	)
	if err != nil {
		if reject, ok := err.(*trading.RejectError); ok && reject.Kind == trading.RejectEligibility {
			// Already credited by a concurrent pass.
			return true
		}
		fmt.Printf("[[Tx Deposit]] credit failed for user %v: %v\n", user.Id, err)
		return false
	}
	fmt.Printf("[[Tx Deposit]] Platform User balance is set to: %v\n", credited.Balance)
	cpUrl := os.Getenv("CP_URL")
	msg := fmt.Sprintf(
		`DEPOSITED TO PLATFORM [Transaction: %s](%s%s)
[User: %d](%s/users/%d)
Amount: %s
User Balance: %s`,
		log.TxHash.Hex(),
		agritradeapi.EscapeMarkdownV2(`https://polygonscan.com/tx/`),
		log.TxHash.Hex(),
		credited.Id,
		cpUrl,
		credited.Id,
		agritradeapi.EscapeMarkdownV2(fmt.Sprintf("%.2f", agritradeapi.RoundFloat(amountTx, 2))),
		agritradeapi.EscapeMarkdownV2(fmt.Sprintf("%.2f", credited.Balance)),
	)
	agritradeapi.QueueTelegramMessage(msg, "finance")
	agritradeapi.PublishUserSync(appTracker.Rdb, *credited)
	agritradeapi.PublishNotification(appTracker.Rdb, *credited, agritradeapi.NotificationData{
		Style:   agritradeapi.MessageStyleSuccess,
		Type:    agritradeapi.MessageTypeDeposit,
		Message: fmt.Sprintf("Deposit of $%.2f credited", agritradeapi.RoundFloat(amountTx, 2)),
		Amount:  agritradeapi.RoundFloat(amountTx, 2),
	})
	return true
}

// topicAddress normalizes a wallet address for topic filtering.
func topicAddress(address string) common.Hash {
	if !evm.IsValidAddress(address) {
		return common.Hash{}
	}
	return common.HexToHash(strings.ToLower(address))
}
