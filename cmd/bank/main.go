// Command bank is the interactive terminal front end: menus, prompts and
// statement files. It holds no business logic; every action is a call
// into the service layer with the logged-in session's account number.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/cmbank/corebank/internal/config"
	"github.com/cmbank/corebank/internal/money"
	"github.com/cmbank/corebank/internal/service"
	"github.com/cmbank/corebank/internal/store"
)

func main() {
	configPath := flag.String("config", "", "Optional yaml config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	accounts, err := store.NewAccountStore(cfg.Data.AccountsPath)
	if err != nil {
		log.Fatalf("Unable to open account store: %v", err)
	}
	ledger, err := store.NewTransactionLog(cfg.Data.TransactionsPath)
	if err != nil {
		log.Fatalf("Unable to open transaction log: %v", err)
	}
	svc := service.New(accounts, ledger, service.Params{
		MaxTxAmount:         cfg.Business.MaxTxAmountMinor,
		InterestBasisPoints: cfg.Business.InterestBasisPoints,
	})

	ui := &terminal{svc: svc, in: bufio.NewScanner(os.Stdin)}
	ui.mainMenu()
}

type terminal struct {
	svc *service.Service
	in  *bufio.Scanner
}

func (t *terminal) mainMenu() {
	for {
		printHeader("MAIN MENU")
		fmt.Println("1. Register New Account")
		fmt.Println("2. Login")
		fmt.Println("3. Apply Monthly Interest (Admin)")
		fmt.Println("4. Exit")
		switch t.promptInt("Enter your choice (1-4): ") {
		case 1:
			t.register()
		case 2:
			if sess := t.login(); sess != nil {
				t.userMenu(sess)
			}
		case 3:
			credited, err := t.svc.ApplyMonthlyInterest()
			if err != nil {
				fmt.Printf("Interest sweep failed: %v\n", err)
				break
			}
			fmt.Printf("Monthly interest applied to %d account(s).\n", credited)
		case 4:
			fmt.Println("Thank you for banking with us. Goodbye!")
			return
		default:
			fmt.Println("Invalid choice! Please select 1-4.")
		}
	}
}

func (t *terminal) userMenu(sess *service.Session) {
	number := sess.Account.Number
	for {
		printHeader("USER DASHBOARD")
		fmt.Printf("Welcome, %s!\n", sess.Account.FullName)
		fmt.Println("1. Deposit Funds")
		fmt.Println("2. Withdraw Funds")
		fmt.Println("3. Transfer Funds")
		fmt.Println("4. Change Password")
		fmt.Println("5. View Account Details")
		fmt.Println("6. View Transaction History")
		fmt.Println("7. Generate Account Statement")
		fmt.Println("8. Close Account")
		fmt.Println("9. Logout")
		switch t.promptInt("Enter your choice (1-9): ") {
		case 1:
			t.deposit(number)
		case 2:
			t.withdraw(number)
		case 3:
			t.transfer(number)
		case 4:
			t.changePassword(number)
		case 5:
			t.details(number)
		case 6:
			t.history(number)
		case 7:
			t.statement(number)
		case 8:
			if t.closeAccount(number) {
				return
			}
		case 9:
			fmt.Println("Logged out successfully!")
			return
		default:
			fmt.Println("Invalid choice! Please select 1-9.")
		}
	}
}

func (t *terminal) register() {
	printHeader("ACCOUNT REGISTRATION")
	name := t.prompt("Enter your full name: ")
	number := int64(t.promptInt("Create your account number (5-10 digits): "))
	password := t.prompt("Enter password (min 8 chars, mix of letters and numbers): ")
	if t.prompt("Confirm your password: ") != password {
		fmt.Println("Passwords do not match! Registration failed.")
		return
	}
	initial, err := money.ParseAmount(t.prompt("Enter initial deposit amount: "))
	if err != nil {
		fmt.Println("Invalid deposit amount!")
		return
	}
	acct, err := t.svc.Register(name, number, password, initial)
	if err != nil {
		fmt.Printf("Registration failed: %v\n", err)
		return
	}
	fmt.Println("Account successfully registered!")
	fmt.Printf("Account Number: %d\n", acct.Number)
	fmt.Printf("Initial Balance: %s\n", money.FormatMinor(acct.Balance))
}

func (t *terminal) login() *service.Session {
	printHeader("ACCOUNT LOGIN")
	number := int64(t.promptInt("Enter your account number: "))
	password := t.prompt("Enter your password: ")
	sess, err := t.svc.Login(number, password)
	if err != nil {
		fmt.Printf("Login failed: %v\n", err)
		return nil
	}
	fmt.Printf("Login successful! Welcome back, %s!\n", sess.Account.FullName)
	return sess
}

func (t *terminal) deposit(number int64) {
	printHeader("DEPOSIT FUNDS")
	amount, err := money.ParseAmount(t.prompt("Enter amount to deposit: "))
	if err != nil {
		fmt.Println("Invalid amount! Please enter a positive number.")
		return
	}
	balance, err := t.svc.Deposit(number, amount)
	if err != nil {
		fmt.Printf("Deposit failed: %v\n", err)
		return
	}
	fmt.Printf("Deposit successful! New balance: %s\n", money.FormatMinor(balance))
}

func (t *terminal) withdraw(number int64) {
	printHeader("WITHDRAW FUNDS")
	amount, err := money.ParseAmount(t.prompt("Enter amount to withdraw: "))
	if err != nil {
		fmt.Println("Invalid amount! Please enter a positive number.")
		return
	}
	balance, err := t.svc.Withdraw(number, amount)
	if err != nil {
		fmt.Printf("Withdrawal failed: %v\n", err)
		return
	}
	fmt.Printf("Withdrawal successful! New balance: %s\n", money.FormatMinor(balance))
}

func (t *terminal) transfer(number int64) {
	printHeader("FUND TRANSFER")
	target := int64(t.promptInt("Enter recipient's account number: "))
	amount, err := money.ParseAmount(t.prompt("Enter amount to transfer: "))
	if err != nil {
		fmt.Println("Invalid amount! Please enter a positive number.")
		return
	}
	result, err := t.svc.Transfer(number, target, amount)
	if err != nil {
		fmt.Printf("Transfer failed: %v\n", err)
		return
	}
	if result.AuditLost {
		fmt.Println("Warning: transfer processed but failed to record some transactions.")
	}
	fmt.Printf("Transfer successful! Your new balance: %s\n", money.FormatMinor(result.SourceBalance))
}

func (t *terminal) changePassword(number int64) {
	printHeader("CHANGE PASSWORD")
	current := t.prompt("Enter current password: ")
	next := t.prompt("Enter new password (min 8 chars, mix of letters and numbers): ")
	if t.prompt("Confirm new password: ") != next {
		fmt.Println("Passwords do not match!")
		return
	}
	if err := t.svc.ChangePassword(number, current, next); err != nil {
		fmt.Printf("Password change failed: %v\n", err)
		return
	}
	fmt.Println("Password changed successfully!")
}

func (t *terminal) details(number int64) {
	printHeader("ACCOUNT DETAILS")
	acct, err := t.svc.Account(number)
	if err != nil {
		fmt.Printf("Failed to load account: %v\n", err)
		return
	}
	status := "Active"
	if !acct.Active {
		status = "Closed"
	}
	fmt.Printf("Account Holder: %s\n", acct.FullName)
	fmt.Printf("Account Number: %d\n", acct.Number)
	fmt.Printf("Current Balance: %s\n", money.FormatMinor(acct.Balance))
	fmt.Printf("Account Status: %s\n", status)
	fmt.Printf("Date Created: %s\n", acct.CreatedAt.Format("2006-01-02"))
}

func (t *terminal) history(number int64) {
	printHeader("TRANSACTION HISTORY")
	txs, err := t.svc.History(number)
	if err != nil {
		fmt.Printf("Failed to load transaction history: %v\n", err)
		return
	}
	if len(txs) == 0 {
		fmt.Println("No transactions found for this account.")
		return
	}
	fmt.Println("Date             | Type              | Amount     | Balance    | Description")
	fmt.Println("-----------------+-------------------+------------+------------+----------------")
	for _, tx := range txs {
		fmt.Printf("%s | %-17s | %10s | %10s | %s\n",
			tx.Timestamp.Format("2006-01-02 15:04"),
			tx.Type,
			money.FormatMinor(tx.Amount),
			money.FormatMinor(tx.BalanceAfter),
			tx.Description)
	}
}

func (t *terminal) statement(number int64) {
	st, err := t.svc.BuildStatement(number)
	if err != nil {
		fmt.Printf("Failed to build statement: %v\n", err)
		return
	}
	filename := fmt.Sprintf("statement_%d.txt", number)
	f, err := os.Create(filename)
	if err != nil {
		fmt.Printf("Failed to create statement file: %v\n", err)
		return
	}
	defer f.Close()

	fmt.Fprintln(f, "============================================")
	fmt.Fprintln(f, "           BANK ACCOUNT STATEMENT")
	fmt.Fprintln(f, "============================================")
	fmt.Fprintf(f, "Account Holder: %s\n", st.Account.FullName)
	fmt.Fprintf(f, "Account Number: %d\n", st.Account.Number)
	fmt.Fprintf(f, "Statement Date: %s\n", st.GeneratedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(f, "Current Balance: %s\n", money.FormatMinor(st.Account.Balance))
	fmt.Fprintln(f, "============================================")
	fmt.Fprintln(f, "Date             | Type              | Amount     | Balance")
	fmt.Fprintln(f, "-----------------+-------------------+------------+-----------")
	for _, tx := range st.Transactions {
		fmt.Fprintf(f, "%s | %-17s | %10s | %10s\n",
			tx.Timestamp.Format("2006-01-02 15:04"),
			tx.Type,
			money.FormatMinor(tx.Amount),
			money.FormatMinor(tx.BalanceAfter))
	}
	fmt.Fprintln(f, "============================================")
	fmt.Printf("Account statement generated: %s\n", filename)
}

func (t *terminal) closeAccount(number int64) bool {
	printHeader("CLOSE ACCOUNT")
	fmt.Println("WARNING: this action is irreversible.")
	fmt.Println("The record is retained but the account can never be used again.")
	if t.prompt("Type 'CLOSE' to confirm: ") != "CLOSE" {
		fmt.Println("Account closure cancelled.")
		return false
	}
	password := t.prompt("Enter your password to confirm: ")
	if err := t.svc.Close(number, password); err != nil {
		fmt.Printf("Account closure failed: %v\n", err)
		return false
	}
	fmt.Println("Account closed successfully!")
	return true
}

func (t *terminal) prompt(label string) string {
	fmt.Print(label)
	if !t.in.Scan() {
		return ""
	}
	return strings.TrimSpace(t.in.Text())
}

func (t *terminal) promptInt(label string) int {
	for {
		s := t.prompt(label)
		v, err := strconv.Atoi(s)
		if err == nil {
			return v
		}
		fmt.Println("Invalid input! Please enter a valid number.")
	}
}

func printHeader(title string) {
	fmt.Println("\n============================================")
	fmt.Printf("          %s\n", title)
	fmt.Println("============================================")
}
