package radius

import (
	"crypto/hmac"
	"crypto/md5"

	"layeh.com/radius"
	"layeh.com/radius/rfc2869"
)

// hasMessageAuthenticator はMessage-Authenticator属性の有無を返す。
func hasMessageAuthenticator(p *radius.Packet) bool {
	_, err := rfc2869.MessageAuthenticator_Lookup(p)
	return err == nil
}

// verifyMessageAuthenticator はMessage-Authenticator属性のHMAC-MD5を検証する。
func verifyMessageAuthenticator(p *radius.Packet) bool {
	orig, err := rfc2869.MessageAuthenticator_Lookup(p)
	if err != nil || len(orig) != md5.Size {
		return false
	}
	orig = append([]byte(nil), orig...)

	_ = rfc2869.MessageAuthenticator_Set(p, make([]byte, md5.Size))
	data, err := p.MarshalBinary()
	_ = rfc2869.MessageAuthenticator_Set(p, orig)
	if err != nil {
		return false
	}

	mac := hmac.New(md5.New, p.Secret)
	mac.Write(data)
	return hmac.Equal(mac.Sum(nil), orig)
}

// signMessageAuthenticator は応答パケットにMessage-Authenticator属性を設定する。
// 計算には要求のAuthenticatorを用いる。
func signMessageAuthenticator(resp *radius.Packet, requestAuth [16]byte) {
	_ = rfc2869.MessageAuthenticator_Set(resp, make([]byte, md5.Size))

	saved := resp.Authenticator
	resp.Authenticator = requestAuth
	data, err := resp.MarshalBinary()
	resp.Authenticator = saved
	if err != nil {
		return
	}

	mac := hmac.New(md5.New, resp.Secret)
	mac.Write(data)
	_ = rfc2869.MessageAuthenticator_Set(resp, mac.Sum(nil))
}
