// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type AuthorisationError GenericError
type ExistsError GenericError
type FundsError GenericError
type InvalidError GenericError
type NotFoundError GenericError
type ProcessError GenericError
type StateError GenericError

// common errors - keep in alphabetic order
var (
	ErrAlreadyFinal            = StateError("sale is already final")
	ErrAlreadyInitialised      = ExistsError("already initialised")
	ErrAlreadyListed           = StateError("asset is already listed")
	ErrAlreadyOwns             = StateError("recipient already owns an attribute record")
	ErrAlreadySettled          = StateError("sale is already settled")
	ErrAssetExists             = ExistsError("asset already exists")
	ErrBadSignature            = AuthorisationError("bad signature")
	ErrBalanceOverflow         = FundsError("balance overflow")
	ErrCannotDecodeAccount     = InvalidError("cannot decode account")
	ErrCannotDecodePrivateKey  = InvalidError("cannot decode private key")
	ErrChecksumMismatch        = InvalidError("checksum mismatch")
	ErrCorruptRecord           = ProcessError("corrupt record")
	ErrCurrencyMismatch        = FundsError("currency mismatch")
	ErrDatabaseVersion         = ProcessError("incompatible database version")
	ErrExpired                 = AuthorisationError("authorisation has expired")
	ErrFeeRateTooHigh          = InvalidError("fee rate too high")
	ErrInsufficientBalance     = FundsError("insufficient balance")
	ErrInsufficientPayment     = FundsError("insufficient payment")
	ErrInvalidAccount          = InvalidError("invalid account")
	ErrInvalidAsset            = InvalidError("invalid asset")
	ErrInvalidBundle           = InvalidError("invalid attribute bundle")
	ErrInvalidCategory         = InvalidError("invalid category")
	ErrInvalidChain            = InvalidError("invalid chain")
	ErrInvalidCollection       = InvalidError("invalid collection")
	ErrInvalidCount            = InvalidError("invalid count")
	ErrInvalidCurrency         = InvalidError("invalid currency")
	ErrInvalidIPAddress        = InvalidError("invalid IP address")
	ErrInvalidKeyLength        = InvalidError("invalid key length")
	ErrInvalidKeyType          = InvalidError("invalid key type")
	ErrInvalidPrivateKeyFile   = InvalidError("invalid private key file")
	ErrInvalidPublicKeyFile    = InvalidError("invalid public key file")
	ErrInvalidQuota            = InvalidError("invalid quota table")
	ErrInvalidStructPointer    = InvalidError("invalid struct pointer")
	ErrInvalidTimestamp        = AuthorisationError("request timestamp out of range")
	ErrKeyFileAlreadyExists    = ExistsError("key file already exists")
	ErrMissingParameters       = InvalidError("missing parameters")
	ErrNotAdministrator        = AuthorisationError("caller is not the administrator")
	ErrNotApproved             = AuthorisationError("operator is not approved")
	ErrNotAssetOwner           = AuthorisationError("asset is not owned by sender")
	ErrNotInitialised          = NotFoundError("not initialised")
	ErrNotOwner                = AuthorisationError("caller does not own the record")
	ErrNotPrivileged           = AuthorisationError("caller is not the privileged issuer")
	ErrNotPublicKey            = InvalidError("not a public key")
	ErrNotSeller               = AuthorisationError("caller is not the seller")
	ErrNotSupported            = InvalidError("collection or currency not supported")
	ErrNotYetAvailable         = StateError("sale is not yet available")
	ErrPriceMismatch           = FundsError("price mismatch")
	ErrQuotaExhausted          = StateError("quota exhausted")
	ErrRateLimiting            = ProcessError("rate limiting")
	ErrRecordNotFound          = NotFoundError("record not found")
	ErrReentrantCall           = StateError("reentrant call")
	ErrReplayedRequest         = AuthorisationError("replayed request")
	ErrSaleNotFound            = NotFoundError("sale not found")
	ErrSelfTrade               = StateError("buyer is the seller")
	ErrSoulbound               = StateError("record is soulbound")
	ErrTradingDisabled         = StateError("trading disabled")
	ErrTransactionInUse        = ProcessError("transaction already in use")
	ErrTransferRejected        = ProcessError("transfer rejected by receiver")
	ErrUnexpectedPayment       = FundsError("unexpected native payment")
	ErrUnsolicitedTransfer     = AuthorisationError("unsolicited transfer")
	ErrWriteOutsideTransaction = ProcessError("write outside transaction")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e AuthorisationError) Error() string { return string(e) }
func (e ExistsError) Error() string        { return string(e) }
func (e FundsError) Error() string         { return string(e) }
func (e InvalidError) Error() string       { return string(e) }
func (e NotFoundError) Error() string      { return string(e) }
func (e ProcessError) Error() string       { return string(e) }
func (e StateError) Error() string         { return string(e) }

// determine the class of an error
func IsErrAuthorisation(e error) bool { _, ok := e.(AuthorisationError); return ok }
func IsErrExists(e error) bool        { _, ok := e.(ExistsError); return ok }
func IsErrFunds(e error) bool         { _, ok := e.(FundsError); return ok }
func IsErrInvalid(e error) bool       { _, ok := e.(InvalidError); return ok }
func IsErrNotFound(e error) bool      { _, ok := e.(NotFoundError); return ok }
func IsErrProcess(e error) bool       { _, ok := e.(ProcessError); return ok }
func IsErrState(e error) bool         { _, ok := e.(StateError); return ok }
