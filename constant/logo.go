package constant

// Logo is printed above the root command help.
const Logo = `  _        _
 | |_ _ __(_)_ __ ___  _ __ ___   ___ _ __
 | __| '__| | '_ ` + "`" + ` _ \| '_ ` + "`" + ` _ \ / _ \ '__|
 | |_| |  | | | | | | | | | | | |  __/ |
  \__|_|  |_|_| |_| |_|_| |_| |_|\___|_|`
